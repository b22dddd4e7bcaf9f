package parser

import "github.com/tidwall/gjson"

// DefaultMaxBodyTokens is the token ceiling used when validating response bodies.
const DefaultMaxBodyTokens = 1 << 20

// Valid reports whether data is a single complete JSON value that can be
// embedded verbatim in another document. The tokenizer checks structure and
// closure within limit tokens; gjson then checks the grammar the tokenizer
// does not look at, such as separators and literal spelling.
func Valid(data []byte, limit int) bool {
	tokens, err := Tokenize(data, limit)
	if err != nil || len(tokens) == 0 {
		return false
	}
	if SkipSubtree(tokens, 0) != len(tokens) {
		return false
	}
	return gjson.ValidBytes(data)
}
