// Package capture records an HTTP response as it streams in.
//
// A Capturer is handed to the transport as its sink. Header lines arrive raw
// and are parsed into ordered name/value pairs; the status line is kept
// separately and body bytes are buffered. Repeated header names are kept as
// separate entries in the order they were received.
package capture
