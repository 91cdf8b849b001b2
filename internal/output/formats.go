package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/httputil/http"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat maps a flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format: %s (expected text, json or yaml)", s)
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.Request) string
	FormatResponse(resp *http.Response) string
	FormatError(err error) string
	FormatStats(s http.StatsSnapshot) string
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	ID        string            `json:"id" yaml:"id"`
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
	ReusedConn      bool  `json:"reusedConn,omitempty" yaml:"reusedConn,omitempty"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	RequestID  string            `json:"requestId,omitempty" yaml:"requestId,omitempty"`
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Status     string            `json:"status" yaml:"status"`
	Proto      string            `json:"proto" yaml:"proto"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
	Timestamp  string            `json:"timestamp" yaml:"timestamp"`
}

// ErrorData represents a failed exchange
type ErrorData struct {
	Kind    string `json:"kind" yaml:"kind"`
	Method  string `json:"method,omitempty" yaml:"method,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// StatsData represents a latency summary
type StatsData struct {
	Requests  int64            `json:"requests" yaml:"requests"`
	Successes int64            `json:"successes" yaml:"successes"`
	Failures  map[string]int64 `json:"failures,omitempty" yaml:"failures,omitempty"`
	MinMs     float64          `json:"minMs" yaml:"minMs"`
	MeanMs    float64          `json:"meanMs" yaml:"meanMs"`
	P50Ms     float64          `json:"p50Ms" yaml:"p50Ms"`
	P90Ms     float64          `json:"p90Ms" yaml:"p90Ms"`
	P99Ms     float64          `json:"p99Ms" yaml:"p99Ms"`
	MaxMs     float64          `json:"maxMs" yaml:"maxMs"`
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(req *http.Request) string {
	return f.marshal(requestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(responseData(resp, f.Verbose))
}

// FormatError formats a failed exchange as JSON
func (f *JSONFormatter) FormatError(err error) string {
	return f.marshal(errorData(err))
}

// FormatStats formats a latency summary as JSON
func (f *JSONFormatter) FormatStats(s http.StatsSnapshot) string {
	return f.marshal(statsData(s))
}

func (f *JSONFormatter) marshal(v interface{}) string {
	var output []byte
	var err error
	if f.Pretty {
		output, err = json.MarshalIndent(v, "", "  ")
	} else {
		output, err = json.Marshal(v)
	}

	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal output: %s"}`, err)
	}

	return string(output) + "\n"
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(req *http.Request) string {
	return f.marshal(requestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(responseData(resp, f.Verbose))
}

// FormatError formats a failed exchange as YAML
func (f *YAMLFormatter) FormatError(err error) string {
	return f.marshal(errorData(err))
}

// FormatStats formats a latency summary as YAML
func (f *YAMLFormatter) FormatStats(s http.StatsSnapshot) string {
	return f.marshal(statsData(s))
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	output, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal output: %s\n", err)
	}
	// Documents are separated so a stream of them stays parseable.
	return "---\n" + string(output)
}

func requestData(req *http.Request) RequestData {
	headers := make(map[string]string)
	for _, name := range req.HeaderNames() {
		headers[name] = req.Header(name)
	}

	data := RequestData{
		ID:        req.ID(),
		Method:    req.Method(),
		URL:       req.URL(),
		Headers:   headers,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if req.HasBody() {
		data.Body = decodeBody(req.Body())
	}
	return data
}

func responseData(resp *http.Response, verbose bool) ResponseData {
	// Convert headers to map for easier serialization
	headers := make(map[string]string)
	for key, values := range resp.Headers {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	data := ResponseData{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Proto:      resp.Proto,
		Headers:    headers,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if req := resp.Request(); req != nil {
		data.RequestID = req.ID()
	}
	if body := resp.GetBody(); len(body) > 0 {
		data.Body = decodeBody(body)
	}

	t := resp.Timing
	data.Timing = &TimingData{Total: t.TotalTime.Milliseconds()}
	if verbose {
		data.Timing.DNSLookup = t.DNSLookupTime.Milliseconds()
		data.Timing.TCPConnection = t.TCPConnectTime.Milliseconds()
		data.Timing.TLSHandshake = t.TLSHandshakeTime.Milliseconds()
		data.Timing.TimeToFirstByte = t.TimeToFirstByte.Milliseconds()
		data.Timing.ContentTransfer = t.ContentTransferTime.Milliseconds()
		data.Timing.ReusedConn = t.ReusedConn
	}

	return data
}

func errorData(err error) ErrorData {
	var httpErr *http.Error
	if errors.As(err, &httpErr) {
		data := ErrorData{
			Kind:   kindName(httpErr.Kind),
			Method: httpErr.Method,
			URL:    httpErr.URL,
		}
		if httpErr.Err != nil {
			data.Message = httpErr.Err.Error()
		}
		return data
	}
	return ErrorData{Kind: "error", Message: err.Error()}
}

func statsData(s http.StatsSnapshot) StatsData {
	return StatsData{
		Requests:  s.Requests,
		Successes: s.Successes,
		Failures:  s.Failures,
		MinMs:     millis(s.Min),
		MeanMs:    millis(s.Mean),
		P50Ms:     millis(s.P50),
		P90Ms:     millis(s.P90),
		P99Ms:     millis(s.P99),
		MaxMs:     millis(s.Max),
	}
}

// decodeBody returns JSON bodies as values and everything else as text.
func decodeBody(body []byte) interface{} {
	var v interface{}
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: !noColor}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
