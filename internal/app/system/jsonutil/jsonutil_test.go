package jsonutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "200 OK with data",
			status:     http.StatusOK,
			data:       map[string]string{"site_name": "Island Tours"},
			wantStatus: http.StatusOK,
			wantBody:   `{"site_name":"Island Tours"}`,
		},
		{
			name:       "201 Created with data",
			status:     http.StatusCreated,
			data:       map[string]string{"slug": "tours"},
			wantStatus: http.StatusCreated,
			wantBody:   `{"slug":"tours"}`,
		},
		{
			name:       "nil data",
			status:     http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.status, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			body := strings.TrimSpace(rec.Body.String())
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter)
		wantStatus int
		wantMsg    string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "slug is required") }, http.StatusBadRequest, "slug is required"},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "Invalid API key") }, http.StatusUnauthorized, "Invalid API key"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "page not found") }, http.StatusNotFound, "page not found"},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "slug taken") }, http.StatusConflict, "slug taken"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "database error") }, http.StatusInternalServerError, "database error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var got map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("json unmarshal error: %v", err)
			}
			if got["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", got["error"], tt.wantMsg)
			}
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid object", `{"title":"Tours"}`, false},
		{"empty body", ``, true},
		{"malformed", `{"title":`, true},
		{"trailing data", `{"title":"a"}{"title":"b"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v struct {
				Title string `json:"title"`
			}
			err := Decode(rec, req, &v)
			if (err != nil) != tt.wantErr {
				t.Errorf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	big := `{"title":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	var v map[string]string
	err := Decode(rec, req, &v)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("Decode() error = %v, want ErrBodyTooLarge", err)
	}

	out := httptest.NewRecorder()
	DecodeError(out, err)
	if out.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", out.Code)
	}
}
