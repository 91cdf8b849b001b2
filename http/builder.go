package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/idna"
)

// Builder accumulates request configuration and produces an immutable
// Request. Configuration methods return the Builder to allow chaining; the
// first invalid setting is remembered and reported by Build.
//
// A Builder is owned by a single goroutine. Every Builder has its own
// header set, so settings never leak between builders. The zero value is
// usable and sends with DefaultClient.
type Builder struct {
	client *Client

	method         string
	rawURL         string
	headers        http.Header
	headerOrder    []string
	body           []byte
	hasBody        bool
	timeout        time.Duration
	expectContinue bool

	err error
}

// NewBuilder creates a Builder for the given method and URL bound to
// DefaultClient. Custom verbs are allowed.
//
// Example:
//
//	resp, err := http.NewBuilder("PATCH", "https://api.example.com/users/1").
//	    WithJSON(map[string]string{"name": "John"}).
//	    Send(ctx)
func NewBuilder(method, url string) *Builder {
	return DefaultClient.NewBuilder(method, url)
}

// Get creates a GET Builder bound to DefaultClient.
func Get(url string) *Builder {
	return NewBuilder(MethodGet.String(), url)
}

// Post creates a POST Builder bound to DefaultClient.
func Post(url string) *Builder {
	return NewBuilder(MethodPost.String(), url)
}

// Put creates a PUT Builder bound to DefaultClient.
func Put(url string) *Builder {
	return NewBuilder(MethodPut.String(), url)
}

// Delete creates a DELETE Builder bound to DefaultClient.
func Delete(url string) *Builder {
	return NewBuilder(MethodDelete.String(), url)
}

// WithMethod sets the HTTP verb and target URL.
func (b *Builder) WithMethod(method, url string) *Builder {
	b.method = method
	b.rawURL = url
	return b
}

// WithHeader sets a header. Setting the same name again replaces the
// previous value; names are matched case-insensitively.
func (b *Builder) WithHeader(name, value string) *Builder {
	if !httpguts.ValidHeaderFieldName(name) {
		return b.fail(fmt.Errorf("%w: invalid header name %q", ErrInvalidConfig, name))
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return b.fail(fmt.Errorf("%w: invalid value for header %q", ErrInvalidConfig, name))
	}

	if b.headers == nil {
		b.headers = make(http.Header)
	}
	key := textproto.CanonicalMIMEHeaderKey(name)
	if _, ok := b.headers[key]; !ok {
		b.headerOrder = append(b.headerOrder, key)
	}
	b.headers[key] = []string{value}
	return b
}

// WithHeaders sets headers from alternating name, value pairs.
//
//	b.WithHeaders("Accept", "application/json", "X-Trace", "on")
func (b *Builder) WithHeaders(pairs ...string) *Builder {
	if len(pairs)%2 != 0 {
		return b.fail(fmt.Errorf("%w: headers must be name/value pairs, got %d values", ErrInvalidConfig, len(pairs)))
	}
	for i := 0; i < len(pairs); i += 2 {
		b.WithHeader(pairs[i], pairs[i+1])
	}
	return b
}

// WithCookie sets the Cookie header.
func (b *Builder) WithCookie(cookie string) *Builder {
	return b.WithHeader(headerCookie, cookie)
}

// WithContentType sets the Content-Type header to one of the common types.
func (b *Builder) WithContentType(contentType ContentType) *Builder {
	return b.WithHeader(headerContentType, contentType.String())
}

// WithContentTypeString sets the Content-Type header to an arbitrary value.
func (b *Builder) WithContentTypeString(contentType string) *Builder {
	return b.WithHeader(headerContentType, contentType)
}

// WithBody sets the request body. The slice is copied.
func (b *Builder) WithBody(body []byte) *Builder {
	b.body = bytes.Clone(body)
	if b.body == nil {
		b.body = []byte{}
	}
	b.hasBody = true
	return b
}

// WithStringBody sets the request body from a string.
func (b *Builder) WithStringBody(body string) *Builder {
	return b.WithBody([]byte(body))
}

// WithJSON marshals v as the request body. Content-Type is set to
// application/json unless one was already set.
func (b *Builder) WithJSON(v any) *Builder {
	data, err := json.Marshal(v)
	if err != nil {
		return b.fail(fmt.Errorf("%w: marshal json body: %v", ErrInvalidConfig, err))
	}
	if b.headers.Get(headerContentType) == "" {
		b.WithContentType(ContentTypeJSON)
	}
	return b.WithBody(data)
}

// WithForm encodes values as a URL-encoded form body and sets the
// Content-Type header accordingly.
func (b *Builder) WithForm(values url.Values) *Builder {
	b.WithContentType(ContentTypeForm)
	return b.WithStringBody(values.Encode())
}

// WithTimeout overrides the client's request timeout. The duration must be
// positive.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	if timeout <= 0 {
		return b.fail(fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, timeout))
	}
	b.timeout = timeout
	return b
}

// WithTimeoutMillis is WithTimeout expressed in milliseconds.
func (b *Builder) WithTimeoutMillis(ms int64) *Builder {
	return b.WithTimeout(time.Duration(ms) * time.Millisecond)
}

// WithExpectContinue toggles Expect: 100-continue negotiation for requests
// that carry a body.
func (b *Builder) WithExpectContinue(enabled bool) *Builder {
	b.expectContinue = enabled
	return b
}

// Build validates the configuration and returns an immutable Request.
// Later changes to the Builder do not affect returned requests.
func (b *Builder) Build() (*Request, error) {
	if b.err != nil {
		return nil, b.err
	}

	method := strings.TrimSpace(b.method)
	if method == "" {
		return nil, fmt.Errorf("%w: method is empty", ErrInvalidMethod)
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, b.method)
	}

	target, err := parseTarget(b.rawURL)
	if err != nil {
		return nil, err
	}

	order := make([]string, len(b.headerOrder))
	copy(order, b.headerOrder)

	return &Request{
		id:             uuid.NewString(),
		method:         method,
		url:            target,
		headers:        b.headers.Clone(),
		headerOrder:    order,
		body:           bytes.Clone(b.body),
		hasBody:        b.hasBody,
		timeout:        b.timeout,
		expectContinue: b.expectContinue,
	}, nil
}

// Send builds the request and dispatches it synchronously with the
// Builder's client.
func (b *Builder) Send(ctx context.Context) (*Response, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.dispatcher().Send(ctx, req)
}

// SendAsync builds the request and dispatches it asynchronously. Build
// errors are delivered through the returned Future.
func (b *Builder) SendAsync(ctx context.Context) *Future {
	req, err := b.Build()
	if err != nil {
		return failedFuture(err)
	}
	return b.dispatcher().SendAsync(ctx, req)
}

func (b *Builder) dispatcher() *Client {
	if b.client == nil {
		return DefaultClient
	}
	return b.client
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// parseTarget checks that raw is an absolute http(s) URL with a host.
// Internationalized host names are converted to their ASCII form.
func parseTarget(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: url is empty", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}

	if net.ParseIP(host) == nil && !isASCII(host) {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("%w: host %q: %v", ErrInvalidURL, host, err)
		}
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(ascii, port)
		} else {
			u.Host = ascii
		}
	}

	return u, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
