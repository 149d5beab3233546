package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/siteapi"
	"github.com/dalemusser/stratatour/internal/domain/content"
	"go.uber.org/zap"
)

// ErrInvalidKind is returned when adding a block of an unknown kind.
var ErrInvalidKind = errors.New("editor: unknown block kind")

// ErrTitleRequired is returned by Save when the page has no title.
var ErrTitleRequired = errors.New("editor: title is required")

// PageEditor edits one content page. A page opened with NewPageEditor is
// created on its first save; afterwards it behaves like an opened page.
type PageEditor struct {
	client *siteapi.Client
	logger *zap.Logger

	page     content.Page
	creating bool
	edited   bool
}

// OpenPageEditor fetches the page at slug for editing. A failed fetch is
// returned as *LoadError.
func OpenPageEditor(ctx context.Context, client *siteapi.Client, s Session, slug string, logger *zap.Logger) (*PageEditor, error) {
	if !s.Valid() {
		return nil, ErrNoSession
	}
	c := client.As(s.credentials())
	p, err := c.FetchPage(ctx, slug)
	if err != nil {
		return nil, &LoadError{What: "page " + slug, Err: err}
	}
	return &PageEditor{client: c, logger: logger.With(zap.String("slug", slug)), page: p}, nil
}

// NewPageEditor starts a page that does not exist yet. The slug is
// normalized and validated here because it cannot change after creation.
func NewPageEditor(client *siteapi.Client, s Session, title, slug string, logger *zap.Logger) (*PageEditor, error) {
	if !s.Valid() {
		return nil, ErrNoSession
	}
	p, err := content.NewPage(strings.TrimSpace(title), content.NormalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	return &PageEditor{
		client:   client.As(s.credentials()),
		logger:   logger.With(zap.String("slug", p.Slug)),
		page:     p,
		creating: true,
		edited:   true,
	}, nil
}

// Page returns the page as currently edited.
func (e *PageEditor) Page() content.Page { return e.page }

// Creating reports whether the page has not been saved yet.
func (e *PageEditor) Creating() bool { return e.creating }

// Edited reports whether there are unsaved changes.
func (e *PageEditor) Edited() bool { return e.edited }

func (e *PageEditor) SetTitle(v string) {
	e.page.Title = v
	e.edited = true
}

func (e *PageEditor) SetHeroTitle(v string) {
	e.page.HeroTitle = v
	e.edited = true
}

func (e *PageEditor) SetHeroSubtitle(v string) {
	e.page.HeroSubtitle = v
	e.edited = true
}

func (e *PageEditor) SetHeroImageURL(v string) {
	e.page.HeroImageURL = v
	e.edited = true
}

// AddBlock appends an empty block of kind.
func (e *PageEditor) AddBlock(kind content.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%q: %w", kind, ErrInvalidKind)
	}
	e.page = e.page.AddBlock(kind)
	e.edited = true
	return nil
}

// UpdateBlock sets the value of block i. Blocks of unknown kinds keep
// their stored form.
func (e *PageEditor) UpdateBlock(i int, value string) error {
	p, err := e.page.UpdateBlock(i, value)
	if err != nil {
		return err
	}
	e.page = p
	e.edited = true
	return nil
}

// RemoveBlock deletes block i. Callers confirm with the user first.
func (e *PageEditor) RemoveBlock(i int) error {
	p, err := e.page.RemoveBlock(i)
	if err != nil {
		return err
	}
	e.page = p
	e.edited = true
	return nil
}

// MoveBlock shifts block i one slot in dir. Boundaries are no-ops.
func (e *PageEditor) MoveBlock(i int, dir content.Direction) {
	if !e.page.Content.CanMove(i, dir) {
		return
	}
	e.page = e.page.MoveBlock(i, dir)
	e.edited = true
}

// Save creates or updates the page. On success the UI returns to the page
// list; on failure the edits are kept.
func (e *PageEditor) Save(ctx context.Context) SaveResult {
	if strings.TrimSpace(e.page.Title) == "" {
		return failed(ErrTitleRequired)
	}

	var (
		out content.Page
		err error
	)
	if e.creating {
		out, err = e.client.CreatePage(ctx, e.page)
	} else {
		out, err = e.client.UpdatePage(ctx, e.page.Slug, e.page.Update())
	}
	if err != nil {
		e.logger.Warn("page save failed", zap.Bool("create", e.creating), zap.Error(err))
		return failed(err)
	}

	e.page = out
	e.creating = false
	e.edited = false
	e.logger.Info("page saved", zap.Int("blocks", out.Content.Len()))
	return saved(ReturnToList, "Page saved")
}

// Delete removes the page. A page that was never saved has nothing to
// delete.
func (e *PageEditor) Delete(ctx context.Context) SaveResult {
	if e.creating {
		return SaveResult{OK: true, Outcome: ReturnToList}
	}
	if err := e.client.DeletePage(ctx, e.page.Slug); err != nil {
		e.logger.Warn("page delete failed", zap.Error(err))
		return failed(err)
	}
	e.logger.Info("page deleted")
	return saved(ReturnToList, "Page deleted")
}
