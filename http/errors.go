package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Build-time errors are returned by Builder.Build. Dispatch errors are
// returned from Client.Send and Future.Wait wrapped in an *Error.
var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrInvalidMethod    = errors.New("invalid method")
	ErrInvalidConfig    = errors.New("invalid config")
	ErrConnection       = errors.New("connection error")
	ErrTimeout          = errors.New("timeout")
	ErrIO               = errors.New("io error")
	ErrCancelled        = errors.New("cancelled")
	ErrInsecureRedirect = errors.New("insecure redirect")
	ErrAlreadySent      = errors.New("request already sent")
	ErrTooManyRedirects = errors.New("too many redirects")
)

// Error describes a failed dispatch. Kind is one of the Err* sentinels and
// Err is the underlying cause; errors.Is matches either.
type Error struct {
	Kind   error
	Op     string
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Method, e.URL, e.Kind)
	}
	return fmt.Sprintf("%s %s %s: %v: %v", e.Op, e.Method, e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classify maps a transport error onto the dispatch taxonomy. ctx is the
// per-request context; its state wins over the shape of err because
// net/http reports deadline and cancellation in several forms.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrInsecureRedirect):
		return ErrInsecureRedirect
	case errors.Is(err, ErrTooManyRedirects):
		return ErrTooManyRedirects
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return ErrCancelled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return ErrConnection
	}

	if errors.Is(err, syscall.ECONNREFUSED) || isTLSError(err) {
		return ErrConnection
	}

	return ErrIO
}

func isTLSError(err error) bool {
	var (
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
		verifyErr  *tls.CertificateVerificationError
		unknownErr x509.UnknownAuthorityError
		hostErr    x509.HostnameError
	)
	return errors.As(err, &recordErr) ||
		errors.As(err, &alertErr) ||
		errors.As(err, &verifyErr) ||
		errors.As(err, &unknownErr) ||
		errors.As(err, &hostErr)
}
