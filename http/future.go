package http

import (
	"context"
	"sync"
)

// Future is the pending result of Client.SendAsync.
type Future struct {
	req    *Request
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	completed bool
	cancelled bool
	resp      *Response
	err       error
}

func newFuture(req *Request, cancel context.CancelFunc) *Future {
	return &Future{
		req:    req,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func failedFuture(err error) *Future {
	f := newFuture(nil, func() {})
	f.complete(nil, err)
	return f
}

// Done returns a channel that is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the exchange finishes and returns its outcome.
func (f *Future) Wait() (*Response, error) {
	<-f.done
	return f.resp, f.err
}

// Cancel aborts the exchange if it is still in flight and reports whether
// it did. A cancelled Future resolves to ErrCancelled and never delivers a
// response.
func (f *Future) Cancel() bool {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return false
	}
	f.cancelled = true
	f.mu.Unlock()

	f.cancel()
	return true
}

func (f *Future) complete(resp *Response, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		return
	}

	if f.cancelled {
		resp = nil
		err = &Error{Kind: ErrCancelled, Op: "send", Method: f.req.method, URL: f.req.URL(), Err: context.Canceled}
	}

	f.resp, f.err = resp, err
	f.completed = true
	close(f.done)
	f.cancel()
}
