package parser

// Absent marks a token index that does not exist, such as a missing field.
const Absent = -1

// Document pairs a tokenized input with its source bytes. The source must not
// be modified while the document is in use.
type Document struct {
	data   []byte
	tokens []Token
}

// Parse tokenizes a request config using the MaxConfigTokens ceiling.
func Parse(data []byte) (*Document, error) {
	return ParseWithLimit(data, MaxConfigTokens)
}

func ParseWithLimit(data []byte, limit int) (*Document, error) {
	tokens, err := Tokenize(data, limit)
	if err != nil {
		return nil, err
	}
	return &Document{data: data, tokens: tokens}, nil
}

func (d *Document) Len() int {
	return len(d.tokens)
}

func (d *Document) Kind(i int) Kind {
	if i < 0 || i >= len(d.tokens) {
		return KindUndefined
	}
	return d.tokens[i].Kind
}

func (d *Document) Skip(i int) int {
	return SkipSubtree(d.tokens, i)
}

func (d *Document) Field(obj int, key string) (int, bool) {
	return FindObjectField(d.data, d.tokens, obj, key)
}

// Text returns the span of a string token. It reports false for any other kind.
func (d *Document) Text(i int) (string, bool) {
	if i < 0 || i >= len(d.tokens) {
		return "", false
	}
	return DuplicateString(d.data, d.tokens[i])
}

// Raw returns the span of any token, including the brackets of containers.
func (d *Document) Raw(i int) (string, bool) {
	if i < 0 || i >= len(d.tokens) {
		return "", false
	}
	return DuplicateRaw(d.data, d.tokens[i])
}

// SkipSubtree returns the index just past the subtree rooted at i.
func SkipSubtree(tokens []Token, i int) int {
	if i >= len(tokens) {
		return i + 1
	}

	switch tokens[i].Kind {
	case KindString, KindPrimitive:
		return i + 1
	case KindArray:
		next := i + 1
		for k := 0; k < tokens[i].Size; k++ {
			next = SkipSubtree(tokens, next)
		}
		return next
	case KindObject:
		next := i + 1
		for k := 0; k < tokens[i].Size/2; k++ {
			next = SkipSubtree(tokens, next)
			next = SkipSubtree(tokens, next)
		}
		return next
	default:
		return i + 1
	}
}

// FindObjectField returns the index of the value stored under key in the
// object at obj. Keys are compared byte for byte without unescaping. It
// reports false when obj is not an object or no key matches.
func FindObjectField(data []byte, tokens []Token, obj int, key string) (int, bool) {
	if obj < 0 || obj >= len(tokens) || tokens[obj].Kind != KindObject {
		return Absent, false
	}

	i := obj + 1
	for pair := 0; pair < tokens[obj].Size/2; pair++ {
		k := tokens[i]
		if k.Kind == KindString && string(data[k.Start:k.End]) == key {
			return i + 1, true
		}
		i = SkipSubtree(tokens, i+1)
	}

	return Absent, false
}

// DuplicateString copies the text of a string token. Escape sequences are
// kept as written.
func DuplicateString(data []byte, tok Token) (string, bool) {
	if tok.Kind != KindString {
		return "", false
	}
	return string(data[tok.Start:tok.End]), true
}

// DuplicateRaw copies the span of any token.
func DuplicateRaw(data []byte, tok Token) (string, bool) {
	if tok.Start < 0 || tok.End < 0 || tok.End < tok.Start {
		return "", false
	}
	return string(data[tok.Start:tok.End]), true
}
