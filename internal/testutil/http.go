package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/auth"
)

// TestAPIKey is the key test routers are configured with.
const TestAPIKey = "test-api-key-0123456789"

// TestEditor is the editor name sent by NewAPIRequest.
const TestEditor = "Test Editor"

// NewAPIRequest creates a request carrying the test API key and editor
// name. An empty body sends no body at all.
func NewAPIRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Authorization", "Bearer "+TestAPIKey)
	req.Header.Set(auth.EditorHeader, TestEditor)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d. Body: %s", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// ErrorMessage returns the "error" field of a JSON error body, or "" when
// the body is not one.
func (r *ResponseRecorder) ErrorMessage() string {
	var resp map[string]string
	if err := json.Unmarshal(r.Body.Bytes(), &resp); err != nil {
		return ""
	}
	return resp["error"]
}
