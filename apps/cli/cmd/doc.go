// Package cmd implements the pinga command line using Cobra.
//
// pinga takes one JSON file describing a single HTTP request, sends it, and
// prints the response as a JSON document with status, headers and body.
//
//	pinga [--silent] [--exclude-response-headers] [--version] <config.json>
//
// --exclude-response-headers prints only the raw response body. --silent
// prints nothing and reports the outcome through the exit code: 2 when the
// request could not be completed and 3 for an HTTP status of 400 or above.
package cmd
