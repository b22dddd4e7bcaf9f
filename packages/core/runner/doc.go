// Package runner sends the request described by a parsed request config.
//
// A Runner owns the HTTP client for the life of the process. Run assembles
// the request (path parameters, query parameters, headers, body), sends it,
// and either captures the response, streams the body to a writer, or drops
// it, depending on the configured Mode.
package runner
