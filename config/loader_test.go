package config

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/httputil/http"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "httputil.yaml", `
connectTimeout: 2s
requestTimeout: 30 seconds
protocol: http1
redirect: never
maxRedirects: 3
expectContinue: true
headers:
  User-Agent: httputil/0.1.0
  Accept: application/json
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "2s", config.ConnectTimeout)
	assert.Equal(t, "30 seconds", config.RequestTimeout)
	assert.Equal(t, "http1", config.Protocol)
	assert.Equal(t, "never", config.Redirect)
	assert.Equal(t, 3, config.MaxRedirects)
	assert.True(t, config.ExpectContinue)
	assert.Equal(t, map[string]string{
		"User-Agent": "httputil/0.1.0",
		"Accept":     "application/json",
	}, config.Headers)
	assert.Len(t, config.ClientOptions(), 7)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "httputil.json", `{
		"requestTimeout": "1500ms",
		"redirect": "always",
		"headers": {"X-Env": "dev"}
	}`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "1500ms", config.RequestTimeout)
	assert.Equal(t, "always", config.Redirect)
	assert.Equal(t, "dev", config.Headers["X-Env"])
	assert.False(t, config.ExpectContinue)
	assert.Len(t, config.ClientOptions(), 3)
}

func TestLoadConfig_Empty(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, config.ClientOptions())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"bad yaml", "bad.yaml", "connectTimeout: [1", "error parsing config file"},
		{"bad json", "bad.json", `{"connectTimeout": }`, "error parsing config file"},
		{"unknown yaml field", "unknown.yaml", "retries: 3", "error parsing config file"},
		{"unknown json field", "unknown.json", `{"retries": 3}`, "error parsing config file"},
		{"invalid duration", "dur.yaml", "requestTimeout: soon", "requestTimeout"},
		{"invalid protocol", "proto.yaml", "protocol: spdy", "invalid protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestClientOptions_Applied(t *testing.T) {
	var mu sync.Mutex
	var gotUA, gotExpect string
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/start" {
			nethttp.Redirect(w, r, "/end", nethttp.StatusFound)
			return
		}
		mu.Lock()
		gotUA = r.Header.Get("User-Agent")
		gotExpect = r.Header.Get("Expect")
		mu.Unlock()
		w.WriteHeader(nethttp.StatusOK)
	}))
	defer server.Close()

	config := &Config{
		Redirect:       "never",
		ExpectContinue: true,
		Headers:        map[string]string{"User-Agent": "httputil-config"},
	}
	client := http.NewClient(config.ClientOptions()...)

	resp, err := client.Get(server.URL + "/start").Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)

	resp, err = config.Apply(client.Post(server.URL + "/end").WithStringBody("x")).Send(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "httputil-config", gotUA)
	assert.Equal(t, "100-continue", gotExpect)
}

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"5s", 5 * time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{"1h30m", 90 * time.Minute, false},
		{"30 seconds", 30 * time.Second, false},
		{"1 minute", time.Minute, false},
		{"2 Hours", 2 * time.Hour, false},
		{"250 milliseconds", 250 * time.Millisecond, false},
		{"", 0, true},
		{"fast", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := ParseDurationString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}
