package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(status int, body string) *Response {
	return &Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Headers:    http.Header{"Content-Type": {"application/json"}},
		body:       []byte(body),
	}
}

func TestResponse_Body(t *testing.T) {
	resp := newTestResponse(200, `{"message":"success","code":200}`)

	assert.Equal(t, `{"message":"success","code":200}`, resp.GetBodyAsString())

	body := resp.GetBody()
	body[0] = '['
	assert.Equal(t, byte('{'), resp.GetBody()[0], "GetBody must return a copy")

	var decoded struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	}
	require.NoError(t, resp.GetBodyAsJSON(&decoded))
	assert.Equal(t, "success", decoded.Message)
	assert.Equal(t, 200, decoded.Code)

	assert.Equal(t, "application/json", resp.GetHeader("content-type"))
	assert.Empty(t, resp.GetHeader("X-Missing"))
}

func TestResponse_StatusClasses(t *testing.T) {
	tests := []struct {
		status                                       int
		success, redirect, clientErr, serverErr, err bool
	}{
		{200, true, false, false, false, false},
		{204, true, false, false, false, false},
		{301, false, true, false, false, false},
		{404, false, false, true, false, true},
		{503, false, false, false, true, true},
	}

	for _, tt := range tests {
		resp := newTestResponse(tt.status, "")
		if resp.IsSuccess() != tt.success {
			t.Errorf("status %d: IsSuccess() = %v", tt.status, resp.IsSuccess())
		}
		if resp.IsRedirect() != tt.redirect {
			t.Errorf("status %d: IsRedirect() = %v", tt.status, resp.IsRedirect())
		}
		if resp.IsClientError() != tt.clientErr {
			t.Errorf("status %d: IsClientError() = %v", tt.status, resp.IsClientError())
		}
		if resp.IsServerError() != tt.serverErr {
			t.Errorf("status %d: IsServerError() = %v", tt.status, resp.IsServerError())
		}
		if resp.IsError() != tt.err {
			t.Errorf("status %d: IsError() = %v", tt.status, resp.IsError())
		}
	}
}

func TestResponse_Extract(t *testing.T) {
	resp := newTestResponse(200, `{
		"users": [
			{"name": "John", "tags": ["admin", "dev"]},
			{"name": "Jane", "manager": null}
		],
		"first name": "root",
		"count": 2
	}`)

	tests := []struct {
		path     string
		expected string
		wantErr  bool
	}{
		{path: "$.count", expected: "2"},
		{path: "$.users[0].name", expected: "John"},
		{path: "users[1].name", expected: "Jane"},
		{path: "$.users[0].tags[1]", expected: "dev"},
		{path: "$['first name']", expected: "root"},
		{path: "$.users[1].manager", expected: "null"},
		{path: "$.users[5].name", wantErr: true},
		{path: "$.missing", wantErr: true},
		{path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			value, err := resp.Extract(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}

	_, err := newTestResponse(204, "").Extract("$.id")
	assert.Error(t, err)
}

func TestToGjsonPath(t *testing.T) {
	tests := map[string]string{
		"$":                 "@this",
		"$.":                "@this",
		"$.a.b":             "a.b",
		"$[0]":              "0",
		"$.items[2].id":     "items.2.id",
		`$["key.with.dots"]`: `key\.with\.dots`,
	}
	for in, want := range tests {
		assert.Equal(t, want, toGjsonPath(in), in)
	}
}

func TestResponse_ValidateSchema(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "integer"},
			"name": {"type": "string"}
		}
	}`

	t.Run("valid", func(t *testing.T) {
		resp := newTestResponse(200, `{"id": 1, "name": "John"}`)
		assert.NoError(t, resp.ValidateSchema(schema))
	})

	t.Run("violations", func(t *testing.T) {
		resp := newTestResponse(200, `{"id": "one"}`)
		err := resp.ValidateSchema(schema)
		require.Error(t, err)

		var violations ValidationErrors
		require.ErrorAs(t, err, &violations)
		assert.NotEmpty(t, violations)
		assert.Contains(t, err.Error(), "/id")
	})

	t.Run("invalid schema", func(t *testing.T) {
		resp := newTestResponse(200, `{}`)
		err := resp.ValidateSchema(`{"type": 12}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid schema")
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := newTestResponse(200, `not json`)
		err := resp.ValidateSchema(schema)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON body")
	})
}
