package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized matches every *AuthError: the session could not be recovered
	// by one refresh-and-retry cycle and credentials have been erased.
	ErrUnauthorized = errors.New("authentication required")

	// ErrMissingRefreshToken indicates that no refresh token is stored
	ErrMissingRefreshToken = errors.New("missing refresh token")

	// ErrNoAccessToken indicates that the refresh endpoint returned no access token
	ErrNoAccessToken = errors.New("no access token returned")

	// ErrForeignURL indicates an absolute URL outside the configured base URL
	ErrForeignURL = errors.New("URL outside the API base URL")
)

// NetworkError means no response was received (DNS, refused connection, timeout).
type NetworkError struct {
	Err    error
	Method string
	URL    string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request failed: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request timed out.
func (e *NetworkError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// ResponseError is an application-level error response (any non-2xx status).
type ResponseError struct {
	Body       map[string]any // декодированное JSON тело, nil если тело не объект
	Raw        []byte
	StatusCode int
}

func newResponseError(status int, body []byte) *ResponseError {
	e := &ResponseError{StatusCode: status, Raw: body}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		e.Body = decoded
	}
	return e
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message())
}

// Message derives a human readable message from the body: a single detail
// message first, then the flattened per-field errors, then a generic refusal.
func (e *ResponseError) Message() string {
	if msg := e.detail(); msg != "" {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if fields := e.FieldErrors(); len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, field := range sortedKeys(fields) {
			parts = append(parts, field+": "+fields[field])
		}
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("request refused (HTTP %d)", e.StatusCode)
}

// detailKeys в порядке приоритета; non_field_errors — ошибки формы целиком
var detailKeys = []string{"detail", "message", "error", "non_field_errors"}

func (e *ResponseError) detail() string {
	for _, key := range detailKeys {
		if v, ok := e.Body[key]; ok {
			if msg := strings.Join(flatten(v), ", "); msg != "" {
				return msg
			}
		}
	}
	return ""
}

// FieldErrors returns per-field messages, e.g. {"username": "already exists"}.
// Nested objects are reported with dotted keys.
func (e *ResponseError) FieldErrors() map[string]string {
	out := make(map[string]string)
	for key, v := range e.Body {
		if isDetailKey(key) {
			continue
		}
		collectFieldErrors(out, key, v)
	}
	return out
}

func collectFieldErrors(out map[string]string, prefix string, v any) {
	if nested, ok := v.(map[string]any); ok {
		for key, inner := range nested {
			collectFieldErrors(out, prefix+"."+key, inner)
		}
		return
	}
	if msg := strings.Join(flatten(v), ", "); msg != "" {
		out[prefix] = msg
	}
}

func flatten(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, flatten(item)...)
		}
		return out
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(val)}
	}
}

func isDetailKey(key string) bool {
	for _, k := range detailKeys {
		if k == key {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AuthError is returned when a 401 could not be recovered: either the refresh
// failed (Cause is set) or the retried request was rejected again.
// Credentials are already erased when it is returned.
type AuthError struct {
	Response *ResponseError
	Cause    error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("authentication failed: %v (refresh: %v)", e.Response, e.Cause)
	}
	return fmt.Sprintf("authentication failed: %v", e.Response)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

func (e *AuthError) Unwrap() []error {
	errs := []error{e.Response}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// ErrorMessage maps any error returned by the client to a message fit for display.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Response != nil {
		return authErr.Response.Message()
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Message()
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return "cannot reach API: request timed out"
		}
		return fmt.Sprintf("cannot reach API: %v", netErr.Err)
	}

	return err.Error()
}
