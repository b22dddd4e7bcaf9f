// Package output renders what pinga prints.
//
// JSONFormatter turns a captured response into the single JSON document
// written to stdout. ConsoleFormatter writes errors and usage text for a
// person reading stderr.
package output
