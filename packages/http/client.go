package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
)

// Sink receives a response as it arrives: header lines (status line first,
// terminated by CRLF, ending with a blank line) and then the body bytes.
type Sink interface {
	io.Writer
	HeaderLine(line string)
}

type bodyOnly struct {
	io.Writer
}

func (bodyOnly) HeaderLine(string) {}

// BodyOnly returns a Sink that writes the body to w and drops header lines.
func BodyOnly(w io.Writer) Sink {
	return bodyOnly{Writer: w}
}

// TransportError reports a request that could not be completed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Result describes a completed exchange.
type Result struct {
	StatusCode int
	Duration   time.Duration
}

type Client struct {
	httpClient     *http.Client
	transport      *http.Transport
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	defaultHeaders map[string]string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
	}

	for _, opt := range opts {
		opt(c)
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	// HTTP/1.1 only, so response heads can be read off the connection
	tlsConfig := &tls.Config{
		InsecureSkipVerify: !c.validateSSL,
		NextProtos:         []string{"http/1.1"},
	}

	// bodies are passed through exactly as the server sent them
	transport := &http.Transport{
		Proxy:              http.ProxyFromEnvironment,
		DisableCompression: true,
		TLSClientConfig:    tlsConfig,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return recordHeads(ctx, conn), nil
		},
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			raw, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			cfg := tlsConfig.Clone()
			if host, _, err := net.SplitHostPort(addr); err == nil {
				cfg.ServerName = host
			}
			conn := tls.Client(raw, cfg)
			if err := conn.HandshakeContext(ctx); err != nil {
				raw.Close()
				return nil, err
			}
			return recordHeads(ctx, conn), nil
		},
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.transport = transport
	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

// WithTimeout bounds the whole exchange. Zero means no limit.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithDefaultHeaders sets headers sent when the request does not carry a
// header of the same name
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// Escape implements Escaper.
func (c *Client) Escape(s string) string {
	return Escape(s)
}

// Escape percent-encodes every byte of s except ASCII letters, digits and
// "-._~". Spaces become %20.
func Escape(s string) string {
	// QueryEscape already encodes a literal '+' as %2B, so every '+' left
	// in its output stands for a space
	return strings.ReplaceAll(neturl.QueryEscape(s), "+", "%20")
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Do sends req and streams the response into sink. Any failure to complete
// the exchange, including errors while reading the body, is a
// *TransportError. HTTP error statuses are not errors.
func (c *Client) Do(ctx context.Context, req *Request, sink Sink) (*Result, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, &TransportError{Err: err}
	}

	var body io.Reader
	if req.HasBody {
		body = bytes.NewReader(req.Body)
	}

	rec := &headRecorder{}
	httpReq, err := http.NewRequestWithContext(withHeadRecorder(ctx, rec), req.Method, req.URL, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	// through a proxy the connection may carry a CONNECT head and then
	// ciphertext, so the head is rebuilt from the parsed response instead
	if proxy, err := c.transport.Proxy(httpReq); err != nil || proxy != nil {
		httpReq = httpReq.WithContext(ctx)
	}

	for _, line := range req.Headers {
		name, value, ok := splitHeaderLine(line)
		if !ok {
			continue
		}
		if strings.EqualFold(name, "Host") {
			httpReq.Host = value
			continue
		}
		// assigned directly so the name goes out as written
		httpReq.Header[name] = append(httpReq.Header[name], value)
	}

	for k, v := range c.defaultHeaders {
		if !req.HasHeader(k) {
			httpReq.Header.Set(k, v)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	writeHeaderLines(sink, httpResp, rec.final(httpResp.StatusCode))

	if _, err := io.Copy(sink, httpResp.Body); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	return &Result{
		StatusCode: httpResp.StatusCode,
		Duration:   time.Since(start),
	}, nil
}

// writeHeaderLines replays the response head as raw lines, verbatim from the
// wire when it was recorded. Otherwise it is rebuilt from resp with
// canonical names in sorted order; values of a repeated name keep their order.
func writeHeaderLines(sink Sink, resp *http.Response, head []string) {
	if head != nil {
		for _, line := range head {
			sink.HeaderLine(line)
		}
		return
	}

	sink.HeaderLine(resp.Proto + " " + resp.Status + "\r\n")

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range resp.Header[name] {
			sink.HeaderLine(name + ": " + value + "\r\n")
		}
	}

	sink.HeaderLine("\r\n")
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	// Check for valid scheme
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https are allowed)", u.Scheme)
	}

	// Check for valid host
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
