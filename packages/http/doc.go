// Package http builds and sends the request described by a pinga config.
//
// It provides:
//   - Request assembly: path placeholder substitution, query string
//     encoding and header lines, driven by the config collections
//   - Method and body derivation from payload or payload_file
//   - A net/http based client with configurable timeout, redirects,
//     TLS verification and proxy
//   - Delivery of the response status line, header lines and body to a Sink
package http
