package http

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
)

// maxHeadBytes is the net/http default limit on a response head.
const maxHeadBytes = 1 << 20

type headRecorderKey struct{}

// headRecorder collects the response heads read on the connections of one
// request, line by line as they arrived on the wire. net/http canonicalizes
// header names and keeps them in a map, so this is the only place where
// their order and spelling survive.
type headRecorder struct {
	mu    sync.Mutex
	heads [][]string
}

func withHeadRecorder(ctx context.Context, rec *headRecorder) context.Context {
	return context.WithValue(ctx, headRecorderKey{}, rec)
}

func headRecorderFrom(ctx context.Context) *headRecorder {
	rec, _ := ctx.Value(headRecorderKey{}).(*headRecorder)
	return rec
}

func (r *headRecorder) add(head []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heads = append(r.heads, head)
}

// final returns the last recorded head if it carries status code, nil
// otherwise.
func (r *headRecorder) final(code int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.heads) == 0 {
		return nil
	}
	head := r.heads[len(r.heads)-1]
	if statusCode(head[0]) != code {
		return nil
	}
	return head
}

// statusCode reads the code from a status line, 0 if there is none.
func statusCode(line string) int {
	if !strings.HasPrefix(line, "HTTP/") {
		return 0
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// recordHeads wraps conn so the response heads read from it reach the
// recorder carried by ctx. Without a recorder conn is returned as is.
func recordHeads(ctx context.Context, conn net.Conn) net.Conn {
	rec := headRecorderFrom(ctx)
	if rec == nil {
		return conn
	}
	return &headConn{Conn: conn, rec: rec}
}

// headConn scans the bytes read from a connection for a response head.
// Scanning stops at the end of a final (non 1xx) head and resumes when the
// next request line is written on a reused connection.
type headConn struct {
	net.Conn
	rec *headRecorder

	mu   sync.Mutex
	line []byte
	head []string
	size int
	done bool
}

func (c *headConn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if n > 0 {
		c.mu.Lock()
		if !c.done {
			c.scan(p[:n])
		}
		c.mu.Unlock()
	}
	return n, err
}

func (c *headConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	if c.done && isRequestLine(p) {
		c.line = c.line[:0]
		c.head = nil
		c.size = 0
		c.done = false
	}
	c.mu.Unlock()
	return c.Conn.Write(p)
}

func (c *headConn) scan(b []byte) {
	for len(b) > 0 && !c.done {
		i := bytes.IndexByte(b, '\n')
		if i < 0 {
			c.line = append(c.line, b...)
			c.size += len(b)
			break
		}

		c.line = append(c.line, b[:i+1]...)
		c.size += i + 1
		b = b[i+1:]

		line := string(c.line)
		c.line = c.line[:0]
		c.head = append(c.head, line)

		switch {
		case line == "\r\n" || line == "\n":
			c.finish()
		case c.size > maxHeadBytes:
			c.done = true
		}
	}
}

func (c *headConn) finish() {
	head := c.head
	c.head = nil
	c.size = 0
	c.rec.add(head)

	// an interim response is followed by another head on the same connection
	code := statusCode(head[0])
	if code < 100 || code > 199 || code == 101 {
		c.done = true
	}
}

// isRequestLine reports whether p starts with "METHOD target HTTP/1.x".
func isRequestLine(p []byte) bool {
	end := bytes.IndexByte(p, '\n')
	if end < 0 {
		return false
	}
	first := string(bytes.TrimRight(p[:end], "\r"))

	method, rest, ok := strings.Cut(first, " ")
	if !ok || method == "" {
		return false
	}
	for _, r := range method {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return strings.HasSuffix(rest, " HTTP/1.1") || strings.HasSuffix(rest, " HTTP/1.0")
}
