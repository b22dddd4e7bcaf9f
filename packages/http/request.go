package http

import (
	"os"
	"strings"

	"github.com/abdul-hamid-achik/pinga/packages/core/parser"
)

// Escaper percent-encodes text for use inside a URL.
type Escaper interface {
	Escape(s string) string
}

// Request is the outgoing request while it is being assembled.
type Request struct {
	Method  string
	URL     string
	Headers []string // "Name: value" lines, in config order
	Body    []byte
	HasBody bool

	hasQuery bool
}

func NewRequest(method, requestURL string) *Request {
	return &Request{
		Method:   method,
		URL:      requestURL,
		hasQuery: strings.Contains(requestURL, "?"),
	}
}

// SetPathParam replaces every "{name}" in the URL with the escaped value.
func (r *Request) SetPathParam(esc Escaper, name, value string) *Request {
	r.URL = strings.ReplaceAll(r.URL, "{"+name+"}", esc.Escape(value))
	return r
}

// AddQueryParam appends name=value to the URL, both sides escaped. The first
// parameter starts the query string unless the URL already has one.
func (r *Request) AddQueryParam(esc Escaper, name, value string) *Request {
	sep := "?"
	if r.hasQuery {
		sep = "&"
	}
	r.URL += sep + esc.Escape(name) + "=" + esc.Escape(value)
	r.hasQuery = true
	return r
}

func (r *Request) AddHeader(name, value string) *Request {
	r.Headers = append(r.Headers, name+": "+value)
	return r
}

func (r *Request) SetBody(body []byte) *Request {
	r.Body = body
	r.HasBody = true
	return r
}

// BuildRequest assembles the request described by cfg. The body comes from
// payload or from the file named by payload_file; without an explicit method
// a request with a body is a POST and one without is a GET. Path parameters,
// query parameters and headers are then applied in that order.
func BuildRequest(cfg *parser.RequestConfig, esc Escaper) (*Request, error) {
	r := NewRequest(cfg.Method, cfg.URL)

	if cfg.HasPayload {
		r.SetBody([]byte(cfg.Payload))
	} else if cfg.HasPayloadFile {
		body, err := os.ReadFile(cfg.PayloadFile)
		if err != nil {
			return nil, &parser.ReadError{What: "payload_file", Path: cfg.PayloadFile, Err: err}
		}
		r.SetBody(body)
	}

	if r.Method == "" {
		if r.HasBody {
			r.Method = "POST"
		} else {
			r.Method = "GET"
		}
	}

	doc := cfg.Doc
	err := doc.EachPair(cfg.PathParams, parser.LabelPathParams, func(name, value string) error {
		r.SetPathParam(esc, name, value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = doc.EachPair(cfg.QueryParams, parser.LabelQueryParams, func(name, value string) error {
		r.AddQueryParam(esc, name, value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = doc.EachPair(cfg.Headers, parser.LabelHeaders, func(name, value string) error {
		r.AddHeader(name, value)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// HasHeader reports whether a header line with the given name was added,
// ignoring case.
func (r *Request) HasHeader(name string) bool {
	for _, line := range r.Headers {
		if n, _, ok := splitHeaderLine(line); ok && strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func splitHeaderLine(line string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return name, strings.TrimLeft(value, " \t"), true
}
