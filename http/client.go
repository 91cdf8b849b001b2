package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"golang.org/x/net/http2"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultRequestTimeout = 5 * time.Second
	DefaultMaxRedirects   = 10
)

// Protocol selects the HTTP version a Client negotiates.
type Protocol string

const (
	// ProtocolHTTP2 offers h2 through ALPN and falls back to HTTP/1.1 when
	// the peer does not accept it. Cleartext requests use HTTP/1.1.
	ProtocolHTTP2 Protocol = "http2"
	ProtocolHTTP1 Protocol = "http1"
)

// RedirectPolicy controls how redirects are followed.
type RedirectPolicy string

const (
	// RedirectNormal follows redirects except HTTPS to HTTP downgrades,
	// which fail with ErrInsecureRedirect.
	RedirectNormal RedirectPolicy = "normal"
	// RedirectNever returns the redirect response itself.
	RedirectNever RedirectPolicy = "never"
	// RedirectAlways follows every redirect, including downgrades.
	RedirectAlways RedirectPolicy = "always"
)

// DefaultClient is the shared client used by the package-level builder
// factories.
var DefaultClient = NewClient()

// Client dispatches Requests.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient     *http.Client
	requestTimeout time.Duration
	headers        http.Header
	logger         *slog.Logger
	stats          *Stats

	connectTimeout time.Duration
	protocol       Protocol
	redirect       RedirectPolicy
	maxRedirects   int
	transport      http.RoundTripper
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithConnectTimeout(2*time.Second),
//	    http.WithRequestTimeout(10*time.Second),
//	    http.WithRedirectPolicy(http.RedirectNever),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		requestTimeout: DefaultRequestTimeout,
		headers:        make(http.Header),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		connectTimeout: DefaultConnectTimeout,
		protocol:       ProtocolHTTP2,
		redirect:       RedirectNormal,
		maxRedirects:   DefaultMaxRedirects,
	}

	for _, option := range options {
		option(client)
	}

	transport := client.transport
	if transport == nil {
		transport = client.newTransport()
	}

	client.httpClient = &http.Client{
		Transport:     transport,
		CheckRedirect: client.checkRedirect,
	}

	return client
}

// WithConnectTimeout bounds TCP connection setup and the TLS handshake.
// Non-positive values are ignored.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.connectTimeout = timeout
		}
	}
}

// WithRequestTimeout sets the timeout applied to requests that do not set
// their own. It covers the whole exchange including the response body.
// Non-positive values are ignored.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
}

// WithProtocol selects the preferred HTTP version.
func WithProtocol(protocol Protocol) ClientOption {
	return func(c *Client) {
		c.protocol = protocol
	}
}

// WithRedirectPolicy selects how redirects are followed.
func WithRedirectPolicy(policy RedirectPolicy) ClientOption {
	return func(c *Client) {
		c.redirect = policy
	}
}

// WithMaxRedirects caps the number of redirects followed for one request.
func WithMaxRedirects(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxRedirects = n
		}
	}
}

// WithDefaultHeader adds a header to every request sent by this client.
// Headers set on the request take precedence.
func WithDefaultHeader(name, value string) ClientOption {
	return func(c *Client) {
		c.headers.Set(name, value)
	}
}

// WithTransport replaces the transport. Connect timeout and protocol
// settings only apply to the built-in transport.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithLogger sets the structured logger. Logging is discarded by default.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStats records the latency of every exchange into stats.
func WithStats(stats *Stats) ClientOption {
	return func(c *Client) {
		c.stats = stats
	}
}

// NewBuilder creates a Builder bound to this client.
func (c *Client) NewBuilder(method, url string) *Builder {
	return &Builder{
		client:  c,
		method:  method,
		rawURL:  url,
		headers: make(http.Header),
	}
}

// Get creates a GET Builder bound to this client.
func (c *Client) Get(url string) *Builder {
	return c.NewBuilder(MethodGet.String(), url)
}

// Post creates a POST Builder bound to this client.
func (c *Client) Post(url string) *Builder {
	return c.NewBuilder(MethodPost.String(), url)
}

// Put creates a PUT Builder bound to this client.
func (c *Client) Put(url string) *Builder {
	return c.NewBuilder(MethodPut.String(), url)
}

// Delete creates a DELETE Builder bound to this client.
func (c *Client) Delete(url string) *Builder {
	return c.NewBuilder(MethodDelete.String(), url)
}

// Stats returns the recorder configured with WithStats, or nil.
func (c *Client) Stats() *Stats {
	return c.stats
}

// CloseIdleConnections closes idle keep-alive connections of the
// underlying transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Send dispatches req and blocks until the response body has been read or
// the request times out.
//
// Example:
//
//	req, err := client.Get("https://api.example.com/users").Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Send(ctx, req)
//	if errors.Is(err, http.ErrTimeout) {
//	    // ...
//	}
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if err := c.claim(req); err != nil {
		return nil, err
	}
	return c.send(ctx, req)
}

// SendAsync dispatches req in a new goroutine and returns immediately. The
// outcome is delivered through the Future with the same errors as Send.
func (c *Client) SendAsync(ctx context.Context, req *Request) *Future {
	if err := c.claim(req); err != nil {
		return failedFuture(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	future := newFuture(req, cancel)
	go func() {
		resp, err := c.send(ctx, req)
		future.complete(resp, err)
	}()

	return future
}

func (c *Client) claim(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidConfig)
	}
	if !req.markSent() {
		return &Error{Kind: ErrAlreadySent, Op: "send", Method: req.method, URL: req.URL()}
	}
	return nil
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.timeout
	if timeout <= 0 {
		timeout = c.requestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := c.logger.With(
		slog.String("request_id", req.id),
		slog.String("method", req.method),
		slog.String("url", req.URL()))

	tracer := newTracer()
	httpReq, err := req.toHTTP(httptrace.WithClientTrace(ctx, tracer.clientTrace()))
	if err != nil {
		return nil, &Error{Kind: ErrInvalidConfig, Op: "build", Method: req.method, URL: req.URL(), Err: err}
	}
	for name, values := range c.headers {
		if _, ok := httpReq.Header[name]; !ok {
			httpReq.Header[name] = values
		}
	}

	logger.Debug("sending request", slog.Duration("timeout", timeout))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			httpResp.Body.Close()
		}
		return nil, c.fail(ctx, logger, "send", req, tracer, err)
	}
	defer httpResp.Body.Close()

	tracer.headersDone()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.fail(ctx, logger, "read body", req, tracer, err)
	}
	timing := tracer.finish()

	if c.stats != nil {
		c.stats.Record(timing.TotalTime, nil)
	}

	logger.Debug("received response",
		slog.Int("status", httpResp.StatusCode),
		slog.String("proto", httpResp.Proto),
		slog.Duration("duration", timing.TotalTime))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Proto:      httpResp.Proto,
		Headers:    httpResp.Header,
		Timing:     timing,
		request:    req,
		body:       body,
	}, nil
}

func (c *Client) fail(ctx context.Context, logger *slog.Logger, op string, req *Request, tracer *tracer, err error) error {
	kind := classify(ctx, err)
	timing := tracer.finish()
	if c.stats != nil {
		c.stats.Record(timing.TotalTime, kind)
	}

	logger.Warn("request failed",
		slog.String("op", op),
		slog.String("kind", kind.Error()),
		slog.Duration("duration", timing.TotalTime),
		slog.String("error", err.Error()))

	return &Error{Kind: kind, Op: op, Method: req.method, URL: req.URL(), Err: err}
}

func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if c.redirect == RedirectNever {
		return http.ErrUseLastResponse
	}
	if len(via) >= c.maxRedirects {
		return fmt.Errorf("%w: stopped after %d redirects", ErrTooManyRedirects, c.maxRedirects)
	}

	prev := via[len(via)-1]
	if c.redirect != RedirectAlways && prev.URL.Scheme == "https" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s -> %s", ErrInsecureRedirect, prev.URL, req.URL)
	}

	return nil
}

func (c *Client) newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   c.connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   c.connectTimeout,
		ExpectContinueTimeout: time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}

	switch c.protocol {
	case ProtocolHTTP1:
		// A non-nil empty map disables the bundled h2 support.
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	default:
		if err := http2.ConfigureTransport(transport); err != nil {
			c.logger.Warn("http2 unavailable, using http/1.1", slog.String("error", err.Error()))
		}
	}

	return transport
}
