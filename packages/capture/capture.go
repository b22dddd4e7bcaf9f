package capture

import (
	"bytes"
	"strings"

	"github.com/abdul-hamid-achik/pinga/packages/http"
)

const statusPrefix = "HTTP/"

// Capturer collects a response as the transport delivers it. Writes go to the
// body; HeaderLine receives raw header lines including the status line. It
// satisfies http.Sink.
type Capturer struct {
	body       bytes.Buffer
	statusLine string
	headers    []http.HeaderField
}

func New() *Capturer {
	return &Capturer{}
}

// Write appends p to the body. Chunk boundaries carry no meaning.
func (c *Capturer) Write(p []byte) (int, error) {
	return c.body.Write(p)
}

// HeaderLine records one header line. A status line replaces any earlier one,
// so the head of the final response after redirects wins. Blank lines and
// lines without a colon are ignored.
func (c *Capturer) HeaderLine(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}

	if strings.HasPrefix(line, statusPrefix) {
		c.statusLine = line
		return
	}

	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}

	c.headers = append(c.headers, http.HeaderField{
		Name:  strings.Trim(name, " \t"),
		Value: strings.Trim(value, " \t"),
	})
}

// Snapshot returns the captured response with the given status code. The
// returned value shares the capturer's buffers.
func (c *Capturer) Snapshot(statusCode int) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		StatusLine: c.statusLine,
		Headers:    c.headers,
		Body:       c.body.Bytes(),
	}
}
