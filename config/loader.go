package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/httputil/http"
)

// Config represents the client configuration file.
type Config struct {
	// ConnectTimeout bounds connection establishment ("5s", "500ms", "2 seconds")
	ConnectTimeout string `json:"connectTimeout,omitempty" yaml:"connectTimeout,omitempty"`

	// RequestTimeout bounds a whole exchange including the body read
	RequestTimeout string `json:"requestTimeout,omitempty" yaml:"requestTimeout,omitempty"`

	// Protocol is the preferred protocol (http2, http1)
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`

	// Redirect is the redirect policy (normal, never, always)
	Redirect string `json:"redirect,omitempty" yaml:"redirect,omitempty"`

	// MaxRedirects caps followed redirects; zero keeps the client default
	MaxRedirects int `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"`

	// ExpectContinue requests "Expect: 100-continue" on requests with a body
	ExpectContinue bool `json:"expectContinue,omitempty" yaml:"expectContinue,omitempty"`

	// Headers are added to every request that does not set them
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// LoadConfig loads and validates a configuration file from the given path.
// Files with a .json extension are parsed as JSON, all others as YAML.
func LoadConfig(path string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	if errs := ValidateConfig(config); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config file %s: %w", path, joinValidationErrors(errs))
	}

	return config, nil
}

// Parse decodes configuration data. ext selects the format: ".json" for
// JSON, anything else for YAML. Unknown fields are rejected.
func Parse(data []byte, ext string) (*Config, error) {
	var config Config

	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		return &config, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return &config, nil
}

// ClientOptions converts the configuration into client options. It assumes
// the configuration passed ValidateConfig; invalid values are skipped.
func (c *Config) ClientOptions() []http.ClientOption {
	var options []http.ClientOption

	if d, err := ParseDurationString(c.ConnectTimeout); err == nil {
		options = append(options, http.WithConnectTimeout(d))
	}
	if d, err := ParseDurationString(c.RequestTimeout); err == nil {
		options = append(options, http.WithRequestTimeout(d))
	}
	if p, ok := protocols[strings.ToLower(c.Protocol)]; ok {
		options = append(options, http.WithProtocol(p))
	}
	if r, ok := redirectPolicies[strings.ToLower(c.Redirect)]; ok {
		options = append(options, http.WithRedirectPolicy(r))
	}
	if c.MaxRedirects > 0 {
		options = append(options, http.WithMaxRedirects(c.MaxRedirects))
	}
	for _, name := range sortedKeys(c.Headers) {
		options = append(options, http.WithDefaultHeader(name, c.Headers[name]))
	}

	return options
}

// Apply sets the per-request settings of the configuration on a builder.
func (c *Config) Apply(b *http.Builder) *http.Builder {
	if c.ExpectContinue {
		b = b.WithExpectContinue(true)
	}
	return b
}

var protocols = map[string]http.Protocol{
	"http2": http.ProtocolHTTP2,
	"http1": http.ProtocolHTTP1,
}

var redirectPolicies = map[string]http.RedirectPolicy{
	"normal": http.RedirectNormal,
	"never":  http.RedirectNever,
	"always": http.RedirectAlways,
}

// ParseDurationString parses duration strings like "30s", "5m", "1h".
// Supports Go duration format and common variants like "30 seconds".
func ParseDurationString(duration string) (time.Duration, error) {
	// Handle common duration formats
	duration = strings.TrimSpace(duration)
	if duration == "" {
		return 0, fmt.Errorf("duration cannot be empty")
	}

	// Try parsing as Go duration
	if d, err := time.ParseDuration(duration); err == nil {
		return d, nil
	}

	// Handle additional formats like "1 minute", "30 seconds"
	duration = strings.ToLower(duration)
	duration = strings.ReplaceAll(duration, " ", "")

	// Longer words first so "seconds" is not left as "s" + "s".
	replacements := []struct{ word, abbrev string }{
		{"milliseconds", "ms"},
		{"millisecond", "ms"},
		{"seconds", "s"},
		{"second", "s"},
		{"minutes", "m"},
		{"minute", "m"},
		{"hours", "h"},
		{"hour", "h"},
	}

	for _, r := range replacements {
		duration = strings.ReplaceAll(duration, r.word, r.abbrev)
	}

	return time.ParseDuration(duration)
}
