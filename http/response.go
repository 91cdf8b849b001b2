package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// Response is a fully received HTTP response.
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int

	// Status is the HTTP status string (e.g., "200 OK")
	Status string

	// Proto is the negotiated protocol (e.g., "HTTP/1.1", "HTTP/2.0")
	Proto string

	// Headers contains the response headers
	Headers http.Header

	// Timing contains detailed timing information
	Timing TimingInfo

	request *Request
	body    []byte
}

// Request returns the request that produced this response.
func (r *Response) Request() *Request {
	return r.request
}

// GetBody returns a copy of the response body.
func (r *Response) GetBody() []byte {
	return bytes.Clone(r.body)
}

// GetBodyAsString returns the response body as a string.
func (r *Response) GetBodyAsString() string {
	return string(r.body)
}

// GetBodyAsJSON unmarshals the response body into the provided value.
//
// Example:
//
//	var users []User
//	if err := resp.GetBodyAsJSON(&users); err != nil {
//	    log.Fatal(err)
//	}
func (r *Response) GetBodyAsJSON(v any) error {
	return json.Unmarshal(r.body, v)
}

// GetHeader returns the value of the specified header.
// Returns an empty string if the header is not present.
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// IsError returns true if the response status code indicates an error (4xx or 5xx).
func (r *Response) IsError() bool {
	return r.IsClientError() || r.IsServerError()
}

// Extract returns the value at a JSONPath-style expression such as
// "$.users[0].name" from a JSON body. Null values are returned as "null".
func (r *Response) Extract(path string) (string, error) {
	if len(r.body) == 0 {
		return "", errors.New("empty response body")
	}
	if path == "" {
		return "", errors.New("empty path expression")
	}

	result := gjson.GetBytes(r.body, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ValidationErrors lists the schema violations found in a body.
type ValidationErrors []error

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateSchema checks the JSON body against a JSON Schema document.
// Schema violations are returned as ValidationErrors.
func (r *Response) ValidateSchema(schema string) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(r.body, &doc); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	err = compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return collectViolations(verr)
	}
	return ValidationErrors{err}
}

func collectViolations(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if err.Message != "" && len(err.Causes) == 0 {
		errs = append(errs, fmt.Errorf("%s: %s", locationOrRoot(err.InstanceLocation), err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, collectViolations(cause)...)
	}
	return errs
}

func locationOrRoot(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}

// toGjsonPath converts "$.users[0]['first name']" into gjson syntax.
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}

	var sb strings.Builder
	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '[':
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				sb.WriteString(path[i:])
				return sb.String()
			}
			key := strings.Trim(path[i+1:i+end], `'"`)
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(escapeGjson(key))
			i += end
		case '.':
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func escapeGjson(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}
