package runner

import (
	"context"
	"io"
	"time"

	"github.com/abdul-hamid-achik/pinga/packages/capture"
	"github.com/abdul-hamid-achik/pinga/packages/core/parser"
	"github.com/abdul-hamid-achik/pinga/packages/http"
	"github.com/abdul-hamid-achik/pinga/packages/logger"
)

// Mode selects where the response goes.
type Mode int

const (
	// ModeCapture keeps status, headers and body for the caller.
	ModeCapture Mode = iota
	// ModeBody streams the body to Config.Output and drops the headers.
	ModeBody
	// ModeDiscard drops the response; only the status is kept.
	ModeDiscard
)

type Runner struct {
	client *http.Client
	config *Config
	log    *logger.Logger
}

type Config struct {
	Mode           Mode
	Output         io.Writer // body destination in ModeBody
	Timeout        time.Duration
	FollowRedirect bool
	MaxRedirects   int
	ValidateSSL    bool
	Proxy          string
	DefaultHeaders map[string]string
	Logger         *logger.Logger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{ValidateSSL: true, MaxRedirects: http.DefaultMaxRedirects}
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	if !cfg.ValidateSSL {
		log.Warn("TLS certificate verification is disabled")
	}

	clientOpts := []http.ClientOption{
		http.WithFollowRedirects(cfg.FollowRedirect),
		http.WithMaxRedirects(cfg.MaxRedirects),
		http.WithValidateSSL(cfg.ValidateSSL),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, http.WithTimeout(cfg.Timeout))
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, http.WithProxy(cfg.Proxy))
	}
	if len(cfg.DefaultHeaders) > 0 {
		clientOpts = append(clientOpts, http.WithDefaultHeaders(cfg.DefaultHeaders))
	}

	return &Runner{
		client: http.NewClient(clientOpts...),
		config: cfg,
		log:    log,
	}
}

// RequestResult describes one completed exchange.
type RequestResult struct {
	Request    *http.Request
	StatusCode int
	Duration   time.Duration
	Response   *http.Response // set in ModeCapture
}

// Run assembles the request described by cfg and sends it. Assembly errors
// come back unchanged; a request that could not be completed is a
// *http.TransportError. An HTTP error status is not an error.
func (r *Runner) Run(ctx context.Context, cfg *parser.RequestConfig) (*RequestResult, error) {
	req, err := http.BuildRequest(cfg, r.client)
	if err != nil {
		return nil, err
	}

	r.log.Debug("%s %s", req.Method, req.URL)
	r.log.Debug("%d request headers, %d byte body", len(req.Headers), len(req.Body))

	var capturer *capture.Capturer
	var sink http.Sink
	switch r.config.Mode {
	case ModeBody:
		sink = http.BodyOnly(r.config.Output)
	case ModeDiscard:
		sink = http.BodyOnly(io.Discard)
	default:
		capturer = capture.New()
		sink = capturer
	}

	res, err := r.client.Do(ctx, req, sink)
	if err != nil {
		r.log.Debug("request failed: %v", err)
		return nil, err
	}

	r.log.Debug("status %d in %s", res.StatusCode, res.Duration)

	result := &RequestResult{
		Request:    req,
		StatusCode: res.StatusCode,
		Duration:   res.Duration,
	}
	if capturer != nil {
		result.Response = capturer.Snapshot(res.StatusCode)
	}
	return result, nil
}

// Close releases the transport's idle connections.
func (r *Runner) Close() {
	r.client.Close()
}
