package parser

type Kind int

const (
	KindUndefined Kind = iota
	KindObject
	KindArray
	KindString
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

// Token is a view into the input buffer. For strings the span excludes the
// quotes. Size is the number of immediate children: keys and values both
// count for objects, so an object with n pairs has Size 2n.
type Token struct {
	Kind  Kind
	Start int
	End   int
	Size  int
}

// IsOpen reports whether the token is a container that has not been closed yet.
func (t Token) IsOpen() bool {
	return t.Start != -1 && t.End == -1
}

// Len returns the length of the token's span in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}
