package parser

import (
	"errors"
	"os"
)

var (
	ErrMissingURL      = errors.New("missing required field: url")
	ErrInvalidURL      = errors.New("invalid url value")
	ErrInvalidMethod   = errors.New("invalid method value")
	ErrInvalidPayload  = errors.New("invalid payload value")
	ErrPayloadConflict = errors.New("use only one of payload or payload_file")
	ErrInvalidFile     = errors.New("invalid payload_file value")
)

// Collection labels, also used as the config field names.
const (
	LabelPathParams  = "path_params"
	LabelQueryParams = "query_params"
	LabelHeaders     = "headers"
)

// ReadError reports a file that could not be read.
type ReadError struct {
	What string
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return "failed to read " + e.What + ": " + e.Path
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// RequestConfig holds the fields of a request config. Collections are kept as
// token indexes into Doc and walked with EachPair when the request is built.
type RequestConfig struct {
	Doc *Document

	URL            string
	Method         string // empty when not set
	Payload        string
	HasPayload     bool
	PayloadFile    string
	HasPayloadFile bool

	PathParams  int
	QueryParams int
	Headers     int
}

// LoadRequestConfig reads and parses the config file at path.
func LoadRequestConfig(path string) (*RequestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{What: "file", Path: path, Err: err}
	}
	return ParseRequestConfig(data)
}

// ParseRequestConfig extracts the request fields from a config document.
// The root must be an object with a string url. An inline payload that is not
// a string is kept as its raw JSON text.
func ParseRequestConfig(data []byte) (*RequestConfig, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if doc.Len() < 1 || doc.Kind(0) != KindObject {
		return nil, ErrInvalid
	}

	cfg := &RequestConfig{Doc: doc}

	urlIdx, ok := doc.Field(0, "url")
	if !ok {
		return nil, ErrMissingURL
	}
	if cfg.URL, ok = doc.Text(urlIdx); !ok {
		return nil, ErrInvalidURL
	}

	if idx, found := doc.Field(0, "method"); found {
		if cfg.Method, ok = doc.Text(idx); !ok {
			return nil, ErrInvalidMethod
		}
	}

	if idx, found := doc.Field(0, "payload"); found {
		if doc.Kind(idx) == KindString {
			cfg.Payload, ok = doc.Text(idx)
		} else {
			cfg.Payload, ok = doc.Raw(idx)
		}
		if !ok {
			return nil, ErrInvalidPayload
		}
		cfg.HasPayload = true
	}

	if idx, found := doc.Field(0, "payload_file"); found {
		if cfg.HasPayload {
			return nil, ErrPayloadConflict
		}
		if cfg.PayloadFile, ok = doc.Text(idx); !ok {
			return nil, ErrInvalidFile
		}
		cfg.HasPayloadFile = true
	}

	cfg.PathParams = field(doc, LabelPathParams)
	cfg.QueryParams = field(doc, LabelQueryParams)
	cfg.Headers = field(doc, LabelHeaders)

	return cfg, nil
}

func field(doc *Document, key string) int {
	idx, ok := doc.Field(0, key)
	if !ok {
		return Absent
	}
	return idx
}
