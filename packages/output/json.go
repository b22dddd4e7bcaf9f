package output

import (
	"io"
	"os"
	"strconv"

	"github.com/abdul-hamid-achik/pinga/packages/core/parser"
	"github.com/abdul-hamid-achik/pinga/packages/http"
)

// JSONFormatter writes a captured response as a single JSON document:
//
//	{"status":200,"status_text":"HTTP/1.1 200 OK","headers":[{"name":"..","value":".."}],"body":...}
//
// The body is embedded as-is when it is non-empty, complete JSON and
// otherwise as an escaped string.
type JSONFormatter struct {
	writer        io.Writer
	maxBodyTokens int
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:        os.Stdout,
		maxBodyTokens: parser.DefaultMaxBodyTokens,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

// JSONWithMaxBodyTokens caps the token count used when checking whether a
// body can be embedded raw. Larger bodies are embedded as strings.
func JSONWithMaxBodyTokens(n int) JSONOption {
	return func(f *JSONFormatter) {
		if n > 0 {
			f.maxBodyTokens = n
		}
	}
}

// FormatResponse writes resp followed by a newline. Nothing is written if
// the document cannot be built.
func (f *JSONFormatter) FormatResponse(resp *http.Response) error {
	_, err := f.writer.Write(f.AppendResponse(nil, resp))
	return err
}

func (f *JSONFormatter) AppendResponse(dst []byte, resp *http.Response) []byte {
	dst = append(dst, `{"status":`...)
	dst = strconv.AppendInt(dst, int64(resp.StatusCode), 10)

	dst = append(dst, `,"status_text":`...)
	dst = AppendQuoted(dst, []byte(resp.StatusLine))

	dst = append(dst, `,"headers":[`...)
	for i, h := range resp.Headers {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, `{"name":`...)
		dst = AppendQuoted(dst, []byte(h.Name))
		dst = append(dst, `,"value":`...)
		dst = AppendQuoted(dst, []byte(h.Value))
		dst = append(dst, '}')
	}
	dst = append(dst, ']')

	dst = append(dst, `,"body":`...)
	if len(resp.Body) > 0 && parser.Valid(resp.Body, f.maxBodyTokens) {
		dst = append(dst, resp.Body...)
	} else {
		dst = AppendQuoted(dst, resp.Body)
	}

	return append(dst, '}', '\n')
}
