package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wesleyorama2/httputil/http"
)

// Formatter is responsible for formatting HTTP requests and responses in text format
type Formatter struct {
	Verbose bool
	NoColor bool

	scheme *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  NewColorScheme(!noColor),
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req *http.Request) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n",
		f.colors().Sprint(RoleMethod, req.Method()),
		f.colors().Sprint(RoleURL, req.URL())))

	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  ID: %s\n", req.ID()))
	}

	// Format headers if verbose or if there are headers
	names := req.HeaderNames()
	if f.Verbose || len(names) > 0 {
		buf.WriteString("  Headers:\n")
		for _, name := range names {
			f.writeHeader(&buf, name, req.Header(name))
		}
	}

	if req.HasBody() {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(string(req.Body())))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s %s (%dms)\n",
		f.colors().Sprint(StatusRole(resp.StatusCode), resp.Status),
		resp.Proto,
		resp.Timing.TotalTime.Milliseconds()))

	// Format detailed timing information if verbose
	if f.Verbose {
		t := resp.Timing
		timing := func(format string, a ...interface{}) string {
			return f.colors().Sprintf(RoleTiming, format, a...)
		}
		buf.WriteString("  Timing:\n")
		buf.WriteString(timing("    DNS Lookup:         %dms\n", t.DNSLookupTime.Milliseconds()))
		buf.WriteString(timing("    TCP Connection:     %dms\n", t.TCPConnectTime.Milliseconds()))
		buf.WriteString(timing("    TLS Handshake:      %dms\n", t.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(timing("    Time to First Byte: %dms\n", t.TimeToFirstByte.Milliseconds()))
		buf.WriteString(timing("    Content Transfer:   %dms\n", t.ContentTransferTime.Milliseconds()))
		buf.WriteString(timing("    Total:              %dms\n", t.TotalTime.Milliseconds()))
		buf.WriteString(timing("    Reused Connection:  %t\n", t.ReusedConn))

		buf.WriteString("  Headers:\n")
		for _, key := range sortedHeaderKeys(resp.Headers) {
			for _, value := range resp.Headers[key] {
				f.writeHeader(&buf, key, value)
			}
		}
	}

	if body := resp.GetBodyAsString(); body != "" {
		buf.WriteString("  Body:\n")
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatError formats a failed exchange for display
func (f *Formatter) FormatError(err error) string {
	var httpErr *http.Error
	if errors.As(err, &httpErr) {
		line := fmt.Sprintf("%s %s %s %s",
			IconError.Render(f.colors()),
			f.colors().Sprint(RoleError, kindName(httpErr.Kind)),
			httpErr.Method, httpErr.URL)
		if httpErr.Err != nil {
			line += ": " + httpErr.Err.Error()
		}
		return line + "\n"
	}
	return fmt.Sprintf("%s %s\n", IconError.Render(f.colors()), f.colors().Sprint(RoleError, err))
}

// FormatStats formats a latency summary for display
func (f *Formatter) FormatStats(s http.StatsSnapshot) string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s STATS: %d requests, %s, %s\n",
		IconInfo.Render(f.colors()),
		s.Requests,
		f.colors().Sprintf(RoleSuccess, "%d ok", s.Successes),
		f.colors().Sprintf(RoleError, "%d failed", s.Requests-s.Successes)))

	if s.Successes > 0 {
		buf.WriteString(fmt.Sprintf("  Latency: min %s, mean %s, p50 %s, p90 %s, p99 %s, max %s\n",
			round(s.Min), round(s.Mean), round(s.P50), round(s.P90), round(s.P99), round(s.Max)))
	}

	if len(s.Failures) > 0 {
		buf.WriteString("  Failures:\n")
		kinds := make([]string, 0, len(s.Failures))
		for kind := range s.Failures {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		for _, kind := range kinds {
			buf.WriteString(fmt.Sprintf("    %s: %d\n", kind, s.Failures[kind]))
		}
	}

	return buf.String()
}

func (f *Formatter) colors() *ColorScheme {
	if f.scheme == nil {
		f.scheme = NewColorScheme(!f.NoColor)
	}
	return f.scheme
}

func (f *Formatter) writeHeader(buf *strings.Builder, key, value string) {
	buf.WriteString(fmt.Sprintf("    %s: %s\n",
		f.colors().Sprint(RoleHeaderKey, key),
		f.colors().Sprint(RoleHeaderValue, value)))
}

func kindName(kind error) string {
	if kind == nil {
		return "error"
	}
	return kind.Error()
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	}
	return d
}

func sortedHeaderKeys(h map[string][]string) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "  ", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}
