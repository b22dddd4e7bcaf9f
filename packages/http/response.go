package http

// HeaderField is one response header as received. Repeated names are kept as
// separate fields.
type HeaderField struct {
	Name  string
	Value string
}

// Response is the captured outcome of one request.
type Response struct {
	StatusCode int
	StatusLine string // empty when the transport reported none
	Headers    []HeaderField
	Body       []byte
}
