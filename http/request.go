package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"
)

// Request is an immutable, fully specified HTTP request produced by
// Builder.Build. Accessors return copies; nothing handed out aliases the
// descriptor's own state.
//
// A Request may be dispatched once. Sending it again fails with
// ErrAlreadySent.
type Request struct {
	id             string
	method         string
	url            *url.URL
	headers        http.Header
	headerOrder    []string
	body           []byte
	hasBody        bool
	timeout        time.Duration
	expectContinue bool

	sent atomic.Bool
}

// ID returns the identifier generated for this request at build time.
func (r *Request) ID() string {
	return r.id
}

// Method returns the HTTP verb.
func (r *Request) Method() string {
	return r.method
}

// URL returns the target URL.
func (r *Request) URL() string {
	return r.url.String()
}

// Header returns the value of the named header, or "" if it is not set.
func (r *Request) Header(name string) string {
	return r.headers.Get(name)
}

// Headers returns a copy of the configured headers.
func (r *Request) Headers() http.Header {
	return r.headers.Clone()
}

// HeaderNames returns the canonical header names in the order they were
// first set on the builder.
func (r *Request) HeaderNames() []string {
	names := make([]string, len(r.headerOrder))
	copy(names, r.headerOrder)
	return names
}

// Body returns a copy of the request body, or nil when the request has none.
func (r *Request) Body() []byte {
	if !r.hasBody {
		return nil
	}
	return bytes.Clone(r.body)
}

// HasBody reports whether a body was configured. An empty body set with
// WithBody counts as a body.
func (r *Request) HasBody() bool {
	return r.hasBody
}

// Timeout returns the per-request timeout. Zero means the client default
// applies.
func (r *Request) Timeout() time.Duration {
	return r.timeout
}

// ExpectContinue reports whether the request negotiates 100-continue
// before sending its body.
func (r *Request) ExpectContinue() bool {
	return r.expectContinue
}

// Sent reports whether the request has been dispatched.
func (r *Request) Sent() bool {
	return r.sent.Load()
}

// String returns the request line, e.g. "GET https://example.com/".
func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.method, r.url)
}

func (r *Request) markSent() bool {
	return r.sent.CompareAndSwap(false, true)
}

// toHTTP builds the net/http request sent on the wire.
func (r *Request) toHTTP(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.hasBody {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url.String(), body)
	if err != nil {
		return nil, err
	}

	for _, name := range r.headerOrder {
		if name == headerHost {
			// net/http writes the Host line from req.Host only.
			req.Host = r.headers.Get(name)
			continue
		}
		req.Header[name] = []string{r.headers.Get(name)}
	}
	if r.expectContinue && r.hasBody {
		req.Header.Set(headerExpect, "100-continue")
	}

	return req, nil
}
