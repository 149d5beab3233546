package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidSlug is returned when a slug fails ValidSlug.
var ErrInvalidSlug = errors.New("invalid slug")

// MaxSlugLength bounds page slugs.
const MaxSlugLength = 100

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a usable page slug: lowercase letters,
// digits, and single hyphens between them.
func ValidSlug(s string) bool {
	return len(s) > 0 && len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// NormalizeSlug lowercases and trims s and turns inner whitespace into
// hyphens. The result still has to pass ValidSlug.
func NormalizeSlug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}

// Page is a content-edited site page. Slug is fixed once the page exists;
// updates go through PageUpdate, which has no slug.
type Page struct {
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	HeroTitle    string     `json:"heroTitle"`
	HeroSubtitle string     `json:"heroSubtitle"`
	HeroImageURL string     `json:"heroImageUrl"`
	Content      List[Node] `json:"content"`
}

// NewPage returns a page with empty content. The slug is validated.
func NewPage(title, slug string) (Page, error) {
	if !ValidSlug(slug) {
		return Page{}, fmt.Errorf("%q: %w", slug, ErrInvalidSlug)
	}
	return Page{Title: title, Slug: slug}, nil
}

// PageUpdate is the mutable field set of a page.
type PageUpdate struct {
	Title        string     `json:"title"`
	HeroTitle    string     `json:"heroTitle"`
	HeroSubtitle string     `json:"heroSubtitle"`
	HeroImageURL string     `json:"heroImageUrl"`
	Content      List[Node] `json:"content"`
}

// Update returns the mutable fields of p.
func (p Page) Update() PageUpdate {
	return PageUpdate{
		Title:        p.Title,
		HeroTitle:    p.HeroTitle,
		HeroSubtitle: p.HeroSubtitle,
		HeroImageURL: p.HeroImageURL,
		Content:      p.Content,
	}
}

// Apply returns p with u's fields. Slug is untouched.
func (p Page) Apply(u PageUpdate) Page {
	p.Title = u.Title
	p.HeroTitle = u.HeroTitle
	p.HeroSubtitle = u.HeroSubtitle
	p.HeroImageURL = u.HeroImageURL
	p.Content = u.Content
	return p
}

// AddBlock appends an empty block of kind.
func (p Page) AddBlock(kind Kind) Page {
	p.Content = p.Content.Append(NewNode(kind))
	return p
}

// UpdateBlock sets the value of block i.
func (p Page) UpdateBlock(i int, value string) (Page, error) {
	n, ok := p.Content.At(i)
	if !ok {
		return p, fmt.Errorf("update block %d: %w", i, ErrIndexOutOfRange)
	}
	c, err := p.Content.Set(i, n.WithValue(value))
	if err != nil {
		return p, err
	}
	p.Content = c
	return p, nil
}

// RemoveBlock deletes block i.
func (p Page) RemoveBlock(i int) (Page, error) {
	c, err := p.Content.RemoveAt(i)
	if err != nil {
		return p, err
	}
	p.Content = c
	return p, nil
}

// MoveBlock shifts block i one slot in dir; boundaries are no-ops.
func (p Page) MoveBlock(i int, dir Direction) Page {
	p.Content = p.Content.MoveAdjacent(i, dir)
	return p
}
