package http

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		expected error
	}{
		{"deadline", context.Background(), context.DeadlineExceeded, ErrTimeout},
		{"net timeout", context.Background(), &url.Error{Op: "Get", URL: "http://x", Err: timeoutError{}}, ErrTimeout},
		{"dial timeout", context.Background(), &net.OpError{Op: "dial", Err: timeoutError{}}, ErrTimeout},
		{"cancel", context.Background(), context.Canceled, ErrCancelled},
		{"context already cancelled", cancelled, errors.New("net/http: request canceled"), ErrCancelled},
		{"dns", context.Background(), &net.DNSError{Err: "no such host", Name: "x.test"}, ErrConnection},
		{"refused", context.Background(), fmt.Errorf("connect: %w", syscall.ECONNREFUSED), ErrConnection},
		{"certificate", context.Background(), x509.HostnameError{Host: "x.test"}, ErrConnection},
		{"insecure redirect", context.Background(), &url.Error{Op: "Get", URL: "http://x", Err: fmt.Errorf("%w: a -> b", ErrInsecureRedirect)}, ErrInsecureRedirect},
		{"too many redirects", context.Background(), &url.Error{Op: "Get", URL: "http://x", Err: fmt.Errorf("%w: stopped after 3 redirects", ErrTooManyRedirects)}, ErrTooManyRedirects},
		{"unexpected eof", context.Background(), io.ErrUnexpectedEOF, ErrIO},
		{"reset while reading", context.Background(), &net.OpError{Op: "read", Err: syscall.ECONNRESET}, ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify(tt.ctx, tt.err))
		})
	}
}

func TestError(t *testing.T) {
	err := &Error{Kind: ErrTimeout, Op: "send", Method: "GET", URL: "http://example.test/", Err: context.DeadlineExceeded}

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrIO)
	assert.Equal(t, "send GET http://example.test/: timeout: context deadline exceeded", err.Error())

	bare := &Error{Kind: ErrAlreadySent, Op: "send", Method: "POST", URL: "http://example.test/"}
	assert.ErrorIs(t, bare, ErrAlreadySent)
	assert.Equal(t, "send POST http://example.test/: request already sent", bare.Error())
}
