package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPutCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("Expected PUT request, got %s", r.Method)
		}
		if r.Header.Get("X-Test-Header") != "test-value" {
			t.Errorf("Expected X-Test-Header to be 'test-value', got '%s'", r.Header.Get("X-Test-Header"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type to be 'application/json', got '%s'", r.Header.Get("Content-Type"))
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("Error reading request body: %v", err)
		}

		var data map[string]interface{}
		if err := json.Unmarshal(body, &data); err != nil {
			t.Errorf("Error parsing JSON body: %v", err)
		}
		if name, ok := data["name"]; !ok || name != "Updated Resource" {
			t.Errorf("Expected body to contain name='Updated Resource', got %v", name)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": 1, "name": "Updated Resource", "updated": true}`))
	}))
	defer server.Close()

	stdout, _, err := execute(t, "put", server.URL,
		"--header", "X-Test-Header:test-value",
		"--json", `{"name": "Updated Resource", "description": "This resource has been updated"}`,
		"--no-color")
	if err != nil {
		t.Fatalf("Error executing put command: %v", err)
	}

	for _, part := range []string{"REQUEST: PUT " + server.URL, "RESPONSE: 200 OK", `"updated": true`} {
		if !strings.Contains(stdout, part) {
			t.Errorf("Expected output to contain %q, got:\n%s", part, stdout)
		}
	}
}

func TestRequestCommands(t *testing.T) {
	var mu sync.Mutex
	var got *http.Request
	var gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = r.Clone(r.Context())
		gotBody = string(body)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	bodyFile := filepath.Join(t.TempDir(), "body.txt")
	if err := os.WriteFile(bodyFile, []byte("from file"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		args        []string
		method      string
		body        string
		contentType string
		cookie      string
	}{
		{"get", []string{"get", server.URL, "-c", "session=abc"}, "GET", "", "", "session=abc"},
		{"post data", []string{"post", server.URL, "-d", "a=1&b=2", "-H", "Content-Type: application/x-www-form-urlencoded"}, "POST", "a=1&b=2", "application/x-www-form-urlencoded", ""},
		{"post json overridden type", []string{"post", server.URL, "-j", `[1,2]`, "-H", "Content-Type: application/vnd.api+json"}, "POST", "[1,2]", "application/vnd.api+json", ""},
		{"put from file", []string{"put", server.URL, "-d", "@" + bodyFile}, "PUT", "from file", "", ""},
		{"delete", []string{"delete", server.URL + "/items/7", "-t", "2 seconds"}, "DELETE", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(stdout, "RESPONSE: 204 No Content") {
				t.Errorf("Expected 204 response in output, got:\n%s", stdout)
			}

			mu.Lock()
			defer mu.Unlock()
			if got.Method != tt.method {
				t.Errorf("Expected method %s, got %s", tt.method, got.Method)
			}
			if gotBody != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, gotBody)
			}
			if ct := got.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected Content-Type %q, got %q", tt.contentType, ct)
			}
			if cookie := got.Header.Get("Cookie"); cookie != tt.cookie {
				t.Errorf("Expected Cookie %q, got %q", tt.cookie, cookie)
			}
		})
	}
}

func TestRequestCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"bad header", []string{"get", "http://example.com", "-H", "NoColon"}, "invalid header"},
		{"bad json", []string{"post", "http://example.com", "-j", "{nope"}, "not valid JSON"},
		{"bad timeout", []string{"get", "http://example.com", "-t", "forever"}, "invalid timeout"},
		{"zero timeout", []string{"get", "http://example.com", "-t", "0s"}, "invalid config"},
		{"bad scheme", []string{"get", "ftp://example.com"}, "invalid url"},
		{"bad repeat", []string{"get", "http://example.com", "--repeat", "0"}, "--repeat"},
		{"missing config", []string{"get", "http://example.com", "--config", "/does/not/exist.yaml"}, "config file not found"},
		{"data and json", []string{"post", "http://example.com", "-d", "x", "-j", "{}"}, "none of the others"},
		{"no body on get", []string{"get", "http://example.com", "-d", "x"}, "unknown shorthand flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestRequestCommand_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	target := server.URL
	server.Close()

	_, stderr, err := execute(t, "get", target, "--no-color")
	if err == nil || !strings.Contains(err.Error(), "1 of 1 requests failed") {
		t.Errorf("Expected failure summary, got %v", err)
	}
	if !strings.Contains(stderr, "connection error") {
		t.Errorf("Expected connection error on stderr, got %q", stderr)
	}
}

func TestRequestCommand_RepeatAsync(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(5 * time.Millisecond)
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	stdout, _, err := execute(t, "get", server.URL, "--repeat", "4", "--async")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n := hits.Load(); n != 4 {
		t.Errorf("Expected 4 requests, got %d", n)
	}
	if n := strings.Count(stdout, "RESPONSE: 200 OK"); n != 4 {
		t.Errorf("Expected 4 responses in output, got %d:\n%s", n, stdout)
	}
	if n := strings.Count(stdout, "REQUEST:"); n != 1 {
		t.Errorf("Expected the request to be printed once, got %d", n)
	}
	if !strings.Contains(stdout, "STATS: 4 requests, 4 ok, 0 failed") {
		t.Errorf("Expected stats summary, got:\n%s", stdout)
	}
}

func TestRequestCommand_ConfigAndVerbose(t *testing.T) {
	var mu sync.Mutex
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		mu.Lock()
		userAgent = r.Header.Get("User-Agent")
		mu.Unlock()
	}))
	defer server.Close()

	configPath := filepath.Join(t.TempDir(), "httputil.yaml")
	configContent := "redirect: never\nheaders:\n  User-Agent: httputil-cli-test\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := execute(t, "get", server.URL+"/old", "--config", configPath, "-v")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "RESPONSE: 301 Moved Permanently") {
		t.Errorf("Expected redirect to be returned, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Timing:") {
		t.Errorf("Expected verbose timing, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "level=DEBUG") || !strings.Contains(stderr, "sending request") {
		t.Errorf("Expected debug log on stderr, got %q", stderr)
	}

	if _, _, err := execute(t, "get", server.URL+"/new", "--config", configPath); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if userAgent != "httputil-cli-test" {
		t.Errorf("Expected configured User-Agent, got %q", userAgent)
	}
}

func TestRequestCommand_JSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	stdout, _, err := execute(t, "get", server.URL, "-o", "json", "--no-color")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(stdout))
	var req, resp map[string]interface{}
	if err := dec.Decode(&req); err != nil {
		t.Fatalf("Expected request JSON: %v", err)
	}
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("Expected response JSON: %v", err)
	}
	if req["method"] != "GET" {
		t.Errorf("Expected GET, got %v", req["method"])
	}
	if resp["statusCode"] != float64(200) || resp["requestId"] != req["id"] {
		t.Errorf("Unexpected response document: %v", resp)
	}
}
