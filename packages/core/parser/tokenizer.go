package parser

import (
	"errors"
	"fmt"
)

const (
	// DefaultTokenCapacity is the size of the first token buffer tried by Tokenize
	DefaultTokenCapacity = 256
	// MaxConfigTokens is the token ceiling for request configs
	MaxConfigTokens = 4096
)

var (
	// ErrNoMemory is returned by Tokenizer.Parse when the token buffer is full.
	// The input may still be valid; retry with a larger buffer.
	ErrNoMemory = errors.New("not enough tokens")

	// ErrInvalid is returned for malformed or unclosed input.
	ErrInvalid = errors.New("invalid JSON structure")

	// ErrTooLarge is returned by Tokenize when the input needs more tokens
	// than the allowed ceiling.
	ErrTooLarge = errors.New("token limit exceeded")
)

// Tokenizer holds the cursor of a single parse pass. It is not safe for
// concurrent use and must be Reset before it is reused.
type Tokenizer struct {
	pos   int // next unread byte
	next  int // next free token slot
	super int // innermost open container, -1 when none
}

func NewTokenizer() *Tokenizer {
	t := &Tokenizer{}
	t.Reset()
	return t
}

func (t *Tokenizer) Reset() {
	t.pos = 0
	t.next = 0
	t.super = -1
}

// Parse scans data into tokens and returns the number of tokens written.
// It fails with ErrNoMemory when tokens is too small and with ErrInvalid
// when the input is malformed or leaves a container open.
func (t *Tokenizer) Parse(data []byte, tokens []Token) (int, error) {
	count := 0
	for ; t.pos < len(data); t.pos++ {
		c := data[t.pos]
		switch c {
		case '{', '[':
			tok := t.alloc(tokens)
			if tok == nil {
				return 0, ErrNoMemory
			}
			count++
			tok.Kind = KindObject
			if c == '[' {
				tok.Kind = KindArray
			}
			tok.Start = t.pos
			if t.super != -1 {
				tokens[t.super].Size++
			}
			t.super = t.next - 1

		case '}', ']':
			if err := t.closeContainer(c, tokens); err != nil {
				return 0, err
			}

		case '"':
			if err := t.parseString(data, tokens); err != nil {
				return 0, err
			}
			count++
			if t.super != -1 {
				tokens[t.super].Size++
			}

		case '\t', '\r', '\n', ' ', ':', ',':

		default:
			if err := t.parsePrimitive(data, tokens); err != nil {
				return 0, err
			}
			count++
			if t.super != -1 {
				tokens[t.super].Size++
			}
		}
	}

	for i := 0; i < t.next; i++ {
		if tokens[i].IsOpen() {
			return 0, ErrInvalid
		}
	}

	return count, nil
}

func (t *Tokenizer) alloc(tokens []Token) *Token {
	if t.next >= len(tokens) {
		return nil
	}
	tok := &tokens[t.next]
	t.next++
	*tok = Token{Start: -1, End: -1}
	return tok
}

func (t *Tokenizer) closeContainer(c byte, tokens []Token) error {
	want := KindObject
	if c == ']' {
		want = KindArray
	}

	for i := t.next - 1; i >= 0; i-- {
		tok := &tokens[i]
		if !tok.IsOpen() {
			continue
		}
		if tok.Kind != want {
			return ErrInvalid
		}
		tok.End = t.pos + 1
		t.super = -1
		for j := i - 1; j >= 0; j-- {
			if tokens[j].IsOpen() {
				t.super = j
				break
			}
		}
		return nil
	}

	// closer without any open container
	return ErrInvalid
}

// parseString consumes a string starting at the opening quote and leaves the
// cursor on the closing quote.
func (t *Tokenizer) parseString(data []byte, tokens []Token) error {
	start := t.pos
	t.pos++

	for ; t.pos < len(data); t.pos++ {
		c := data[t.pos]
		if c == '"' {
			tok := t.alloc(tokens)
			if tok == nil {
				t.pos = start
				return ErrNoMemory
			}
			*tok = Token{Kind: KindString, Start: start + 1, End: t.pos}
			return nil
		}

		if c == '\\' && t.pos+1 < len(data) {
			t.pos++
			switch data[t.pos] {
			case '"', '/', '\\', 'b', 'f', 'r', 'n', 't':
			case 'u':
				t.pos += 4
			default:
				t.pos = start
				return ErrInvalid
			}
		}
	}

	t.pos = start
	return ErrInvalid
}

// parsePrimitive consumes a bare literal and leaves the cursor on its last byte.
func (t *Tokenizer) parsePrimitive(data []byte, tokens []Token) error {
	start := t.pos

	for ; t.pos < len(data); t.pos++ {
		c := data[t.pos]
		if c == '\t' || c == '\r' || c == '\n' || c == ' ' || c == ',' || c == ']' || c == '}' {
			break
		}
		if c < 0x20 || c >= 0x7f {
			t.pos = start
			return ErrInvalid
		}
	}

	tok := t.alloc(tokens)
	if tok == nil {
		t.pos = start
		return ErrNoMemory
	}
	*tok = Token{Kind: KindPrimitive, Start: start, End: t.pos}
	t.pos--
	return nil
}

// Tokenize parses data into a token slice sized to fit. It starts with
// DefaultTokenCapacity tokens and doubles the buffer on ErrNoMemory until
// limit is reached. Malformed input fails immediately with ErrInvalid.
func Tokenize(data []byte, limit int) ([]Token, error) {
	capacity := DefaultTokenCapacity
	if limit < capacity {
		capacity = limit
	}

	t := NewTokenizer()
	for {
		tokens := make([]Token, capacity)
		t.Reset()
		n, err := t.Parse(data, tokens)
		if err == nil {
			return tokens[:n], nil
		}
		if !errors.Is(err, ErrNoMemory) {
			return nil, err
		}
		if capacity >= limit {
			return nil, fmt.Errorf("%w: more than %d tokens", ErrTooLarge, limit)
		}
		capacity *= 2
		if capacity > limit {
			capacity = limit
		}
	}
}
