// Package pagesapi serves content pages to the page editor.
//
// Endpoints (mounted at /api/pages):
//   - GET    /                 page catalog (slug and title), ordered by title
//   - POST   /                 create a page; the slug is fixed from then on
//   - GET    /{slug}           full page
//   - PUT    /{slug}           replace the mutable fields of a page
//   - DELETE /{slug}           remove a page
//   - GET    /{slug}/preview   rendered HTML with the site's head injection
package pagesapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	pagestore "github.com/dalemusser/stratatour/internal/app/store/pages"
	"github.com/dalemusser/stratatour/internal/app/system/auditlog"
	"github.com/dalemusser/stratatour/internal/app/system/auth"
	"github.com/dalemusser/stratatour/internal/app/system/blockrender"
	"github.com/dalemusser/stratatour/internal/app/system/jsonutil"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/siteconfig"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxBlocks bounds the number of content blocks on one page.
const MaxBlocks = 500

// SettingsSource provides the settings map used for previews.
type SettingsSource interface {
	Get(ctx context.Context) (map[string]string, error)
}

// Handler handles page API requests.
type Handler struct {
	pages    *pagestore.Store
	settings SettingsSource
	audit    *auditlog.Logger
	logger   *zap.Logger
}

// NewHandler creates a new pagesapi handler.
func NewHandler(pages *pagestore.Store, settings SettingsSource, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{pages: pages, settings: settings, audit: audit, logger: logger}
}

// List handles GET /api/pages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.pages.Catalog(r.Context())
	if err != nil {
		h.logger.Error("failed to list pages", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load pages")
		return
	}
	jsonutil.OK(w, catalog)
}

// Create handles POST /api/pages.
//
// Request body: {"title", "slug", "heroTitle", "heroSubtitle",
// "heroImageUrl", "content"}; only title and slug are required.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in content.Page
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.DecodeError(w, err)
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		jsonutil.BadRequest(w, "title is required")
		return
	}
	if in.Slug == "" {
		jsonutil.BadRequest(w, "slug is required")
		return
	}
	if !content.ValidSlug(in.Slug) {
		jsonutil.BadRequest(w, "slug must be lowercase letters, digits and single hyphens")
		return
	}
	if in.Content.Len() > MaxBlocks {
		jsonutil.BadRequest(w, "too many content blocks")
		return
	}

	page, err := h.pages.Create(r.Context(), in, auth.EditorName(r.Context()))
	if errors.Is(err, pagestore.ErrSlugTaken) {
		jsonutil.Conflict(w, "A page with slug \""+in.Slug+"\" already exists")
		return
	}
	if err != nil {
		h.logger.Error("failed to create page", zap.Error(err), zap.String("slug", in.Slug))
		jsonutil.InternalError(w, "Failed to create page")
		return
	}
	h.audit.PageCreated(r.Context(), r, page.Slug)
	jsonutil.Created(w, page.ToContent())
}

// Get handles GET /api/pages/{slug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	page, ok := h.load(w, r)
	if !ok {
		return
	}
	jsonutil.OK(w, page)
}

// updateInput is the PUT body. Slug is only read to reject renames.
type updateInput struct {
	content.PageUpdate
	Slug *string `json:"slug,omitempty"`
}

// Update handles PUT /api/pages/{slug}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	var in updateInput
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.DecodeError(w, err)
		return
	}
	if in.Slug != nil && *in.Slug != slug {
		jsonutil.BadRequest(w, "slug cannot be changed")
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		jsonutil.BadRequest(w, "title is required")
		return
	}
	if in.Content.Len() > MaxBlocks {
		jsonutil.BadRequest(w, "too many content blocks")
		return
	}

	page, err := h.pages.Update(r.Context(), slug, in.PageUpdate, auth.EditorName(r.Context()))
	if errors.Is(err, pagestore.ErrNotFound) {
		jsonutil.NotFound(w, "Page not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to update page", zap.Error(err), zap.String("slug", slug))
		jsonutil.InternalError(w, "Failed to save page")
		return
	}
	h.audit.PageUpdated(r.Context(), r, slug, len(page.Content))
	jsonutil.OK(w, page.ToContent())
}

// Delete handles DELETE /api/pages/{slug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	err := h.pages.Delete(r.Context(), slug)
	if errors.Is(err, pagestore.ErrNotFound) {
		jsonutil.NotFound(w, "Page not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete page", zap.Error(err), zap.String("slug", slug))
		jsonutil.InternalError(w, "Failed to delete page")
		return
	}
	h.audit.PageDeleted(r.Context(), r, slug)
	jsonutil.NoContent(w)
}

// Preview handles GET /api/pages/{slug}/preview.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	page, ok := h.load(w, r)
	if !ok {
		return
	}
	fields, err := h.settings.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings for preview", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load settings")
		return
	}
	doc, _ := siteconfig.Upgrade(siteconfig.NewDocument(fields))
	html, err := blockrender.Document(page, siteconfig.Decode(doc))
	if err != nil {
		h.logger.Error("failed to render page", zap.Error(err), zap.String("slug", page.Slug))
		jsonutil.InternalError(w, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (content.Page, bool) {
	slug := chi.URLParam(r, "slug")
	page, err := h.pages.GetBySlug(r.Context(), slug)
	if errors.Is(err, pagestore.ErrNotFound) {
		jsonutil.NotFound(w, "Page not found")
		return content.Page{}, false
	}
	if err != nil {
		h.logger.Error("failed to load page", zap.Error(err), zap.String("slug", slug))
		jsonutil.InternalError(w, "Failed to load page")
		return content.Page{}, false
	}
	return page.ToContent(), true
}
