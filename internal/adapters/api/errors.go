package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string // envelope message, when the body carried one
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// Message returns the text worth showing a user for err: the backend's own
// message when it sent one, otherwise err's text.
func Message(err error) string {
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) {
		return ee.Error()
	}
	return err.Error()
}

func newHTTPError(method, path string, resp *http.Response) *HTTPError {
	he := &HTTPError{StatusCode: resp.StatusCode, Method: method, Path: path}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return he
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		he.Message = body.Message
		if he.Message == "" {
			he.Message = body.Error
		}
	}
	return he
}
