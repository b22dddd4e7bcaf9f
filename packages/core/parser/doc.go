// Package parser reads pinga request configs.
//
// The config is scanned once into a flat array of tokens. Each token records
// its kind, a byte span into the original input and its number of immediate
// children; children follow their container contiguously. Nothing else is
// allocated, and token text is never copied until a caller asks for it.
//
// On top of the token array the package provides:
//   - Navigation: skipping a subtree, finding an object field by key
//   - Collection iteration over object or array-of-objects name/value sets
//   - Extraction of the request config fields (url, method, payload, ...)
//   - Validation of response bodies before they are embedded verbatim
package parser
