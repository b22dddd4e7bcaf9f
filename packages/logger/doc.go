// Package logger provides the leveled diagnostic logger used across pinga.
//
// Output goes to stderr as "[2006-01-02 15:04:05.000] LEVEL message" lines.
// The default level is warn, so an ordinary run prints nothing.
package logger
