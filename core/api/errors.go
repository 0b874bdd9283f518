package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sublime-migrate/core/utils"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the error message extracted from the response body.
	Message string
	// Details is the parsed JSON body, or the raw body text.
	Details any
	// Method and Path identify the failed request.
	Method string
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error (%d): %s", e.StatusCode, e.Message)
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Details = parsed
		if m, ok := parsed.(map[string]any); ok {
			for _, key := range []string{"message", "error", "detail"} {
				if s := utils.ToString(m[key]); s != "" {
					e.Message = s
					break
				}
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		e.Details = text
		e.Message = utils.Truncate(text, 200)
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// RequestError wraps a failure to complete the HTTP exchange itself.
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ConfigError reports missing or invalid connection settings.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// IsAuthentication reports whether err is a 401 from the API.
func IsAuthentication(err error) bool {
	return hasStatus(err, func(code int) bool { return code == http.StatusUnauthorized })
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, func(code int) bool { return code == http.StatusNotFound })
}

// IsFatal reports whether err should stop a command instead of being recorded
// against a single item: authentication failures, configuration errors and
// server-side (5xx) errors.
func IsFatal(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return true
	}
	return hasStatus(err, func(code int) bool {
		return code == http.StatusUnauthorized || code >= http.StatusInternalServerError
	})
}

// Describe renders err for users. Errors produced by this package keep their
// own text; anything unrecognized is reported as unexpected.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		apiErr *APIError
		reqErr *RequestError
		cfgErr *ConfigError
	)
	switch {
	case errors.As(err, &apiErr), errors.As(err, &reqErr), errors.As(err, &cfgErr):
		return err.Error()
	case errors.Is(err, context.Canceled):
		return "operation canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "operation timed out"
	default:
		return "Unexpected error: " + err.Error()
	}
}

func hasStatus(err error, match func(int) bool) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return match(apiErr.StatusCode)
	}
	return false
}
