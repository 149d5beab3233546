// Package siteapi is the editor-side client for the settings and pages
// persistence API. Every write is a full replace; there are no retries.
package siteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/auth"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/models"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// APIError is a non-2xx response. Message is the server's error text,
// unchanged, so editors can show it verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Credentials identify the caller. Token is sent as a bearer token and
// EditorName as the editor header for the audit trail.
type Credentials struct {
	Token      string
	EditorName string
}

// Client talks to the persistence API at a base URL such as
// "https://content.example.com".
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
}

// New creates a Client. A nil httpClient uses http.DefaultClient, so only
// the transport's default timeout applies.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// As returns a copy of c that sends creds with every request.
func (c *Client) As(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

// FetchSettings loads the whole settings map.
func (c *Client) FetchSettings(ctx context.Context) (siteconfig.Document, error) {
	var fields map[string]string
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, &fields); err != nil {
		return siteconfig.Document{}, fmt.Errorf("fetch settings: %w", err)
	}
	return siteconfig.NewDocument(fields), nil
}

// UpdateSettings replaces the stored settings with doc's fields.
func (c *Client) UpdateSettings(ctx context.Context, doc siteconfig.Document) error {
	if err := c.do(ctx, http.MethodPut, "/api/settings", doc.Fields(), nil); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}

// FetchPageCatalog lists every page's slug and title.
func (c *Client) FetchPageCatalog(ctx context.Context) ([]models.PageSummary, error) {
	var catalog []models.PageSummary
	if err := c.do(ctx, http.MethodGet, "/api/pages", nil, &catalog); err != nil {
		return nil, fmt.Errorf("fetch page catalog: %w", err)
	}
	return catalog, nil
}

// FetchPage loads one page by slug.
func (c *Client) FetchPage(ctx context.Context, slug string) (content.Page, error) {
	var p content.Page
	if err := c.do(ctx, http.MethodGet, pagePath(slug), nil, &p); err != nil {
		return content.Page{}, fmt.Errorf("fetch page %q: %w", slug, err)
	}
	return p, nil
}

// CreatePage stores a new page. The slug cannot change afterwards.
func (c *Client) CreatePage(ctx context.Context, p content.Page) (content.Page, error) {
	var out content.Page
	if err := c.do(ctx, http.MethodPost, "/api/pages", p, &out); err != nil {
		return content.Page{}, fmt.Errorf("create page %q: %w", p.Slug, err)
	}
	return out, nil
}

// UpdatePage replaces the mutable fields of the page at slug.
func (c *Client) UpdatePage(ctx context.Context, slug string, u content.PageUpdate) (content.Page, error) {
	var out content.Page
	if err := c.do(ctx, http.MethodPut, pagePath(slug), u, &out); err != nil {
		return content.Page{}, fmt.Errorf("update page %q: %w", slug, err)
	}
	return out, nil
}

// DeletePage removes the page at slug.
func (c *Client) DeletePage(ctx context.Context, slug string) error {
	if err := c.do(ctx, http.MethodDelete, pagePath(slug), nil, nil); err != nil {
		return fmt.Errorf("delete page %q: %w", slug, err)
	}
	return nil
}

func pagePath(slug string) string {
	return "/api/pages/" + url.PathEscape(slug)
}

// do sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.creds.Token)
	}
	if c.creds.EditorName != "" {
		req.Header.Set(auth.EditorHeader, c.creds.EditorName)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from body, falling back to the
// trimmed body text and then to the status text.
func errorMessage(status int, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return http.StatusText(status)
}
