package http

import (
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"
)

// TimingInfo stores detailed timing information for an exchange.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is the time from the last connection phase to the first response byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration

	// ReusedConn reports whether a pooled connection was used
	ReusedConn bool
}

// tracer collects TimingInfo through httptrace callbacks, which may run on
// transport goroutines.
type tracer struct {
	mu sync.Mutex

	timing TimingInfo

	dnsStart, connectStart, tlsStart time.Time
	lastPhaseEnd                     time.Time
	transferStart                    time.Time
}

func newTracer() *tracer {
	now := time.Now()
	return &tracer{
		timing:       TimingInfo{StartTime: now},
		lastPhaseEnd: now,
	}
}

func (t *tracer) clientTrace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			t.mu.Lock()
			t.timing.ReusedConn = info.Reused
			t.mu.Unlock()
		},
		DNSStart: func(httptrace.DNSStartInfo) {
			t.mu.Lock()
			t.dnsStart = time.Now()
			t.mu.Unlock()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			t.mu.Lock()
			defer t.mu.Unlock()
			now := time.Now()
			t.timing.DNSLookupTime = now.Sub(t.dnsStart)
			t.lastPhaseEnd = now
		},
		ConnectStart: func(network, addr string) {
			t.mu.Lock()
			if t.connectStart.IsZero() {
				t.connectStart = time.Now()
			}
			t.mu.Unlock()
		},
		ConnectDone: func(network, addr string, err error) {
			if err != nil {
				return
			}
			t.mu.Lock()
			defer t.mu.Unlock()
			now := time.Now()
			t.timing.TCPConnectTime = now.Sub(t.connectStart)
			t.lastPhaseEnd = now
		},
		TLSHandshakeStart: func() {
			t.mu.Lock()
			t.tlsStart = time.Now()
			t.mu.Unlock()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err != nil {
				return
			}
			t.mu.Lock()
			defer t.mu.Unlock()
			now := time.Now()
			t.timing.TLSHandshakeTime = now.Sub(t.tlsStart)
			t.lastPhaseEnd = now
		},
		GotFirstResponseByte: func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.timing.TimeToFirstByte = time.Since(t.lastPhaseEnd)
		},
	}
}

// headersDone marks the start of the body transfer.
func (t *tracer) headersDone() {
	t.mu.Lock()
	t.transferStart = time.Now()
	t.mu.Unlock()
}

// finish closes the measurement and returns a snapshot.
func (t *tracer) finish() TimingInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.transferStart.IsZero() {
		t.timing.ContentTransferTime = time.Since(t.transferStart)
	}
	t.timing.TotalTime = time.Since(t.timing.StartTime)
	return t.timing
}
