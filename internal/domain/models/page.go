// internal/domain/models/page.go
package models

import (
	"encoding/json"
	"time"

	"github.com/dalemusser/stratatour/internal/domain/content"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is the stored form of a content page.
type Page struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Slug         string             `bson:"slug" json:"slug"` // immutable after create
	Title        string             `bson:"title" json:"title"`
	TitleCI      string             `bson:"title_ci" json:"-"` // folded title for catalog sort
	HeroTitle    string             `bson:"hero_title" json:"heroTitle"`
	HeroSubtitle string             `bson:"hero_subtitle" json:"heroSubtitle"`
	HeroImageURL string             `bson:"hero_image_url" json:"heroImageUrl"`
	Content      []ContentBlock     `bson:"content" json:"-"`

	// Audit fields
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByName string     `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// ContentBlock is one stored content node. Blocks of a kind the server
// does not understand keep their original JSON in Raw.
type ContentBlock struct {
	Type  string `bson:"type"`
	Value string `bson:"value,omitempty"`
	Raw   string `bson:"raw,omitempty"`
}

// PageSummary is a catalog row.
type PageSummary struct {
	Slug  string `bson:"slug" json:"slug"`
	Title string `bson:"title" json:"title"`
}

// BlocksFromNodes converts editor nodes to storage blocks.
func BlocksFromNodes(nodes content.List[content.Node]) []ContentBlock {
	out := make([]ContentBlock, 0, nodes.Len())
	for _, n := range nodes.Items() {
		if raw := n.Raw(); raw != "" {
			out = append(out, ContentBlock{Type: string(n.Kind()), Raw: raw})
			continue
		}
		out = append(out, ContentBlock{Type: string(n.Kind()), Value: n.Value()})
	}
	return out
}

// NodesFromBlocks converts storage blocks back to editor nodes. A block
// whose raw JSON is unreadable is skipped.
func NodesFromBlocks(blocks []ContentBlock) content.List[content.Node] {
	nodes := make([]content.Node, 0, len(blocks))
	for _, b := range blocks {
		data := []byte(b.Raw)
		if b.Raw == "" {
			data, _ = json.Marshal(struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			}{b.Type, b.Value})
		}
		n, err := content.NodeFromJSON(data)
		if err != nil {
			continue
		}
		nodes = append(nodes, n)
	}
	return content.NewList(nodes...)
}

// ToContent returns the editor view of the stored page.
func (p Page) ToContent() content.Page {
	return content.Page{
		Title:        p.Title,
		Slug:         p.Slug,
		HeroTitle:    p.HeroTitle,
		HeroSubtitle: p.HeroSubtitle,
		HeroImageURL: p.HeroImageURL,
		Content:      NodesFromBlocks(p.Content),
	}
}

// Seed page slugs.
const (
	PageSlugHome           = "home"
	PageSlugTours          = "tours"
	PageSlugVehicles       = "vehicles"
	PageSlugAccommodations = "accommodations"
	PageSlugAbout          = "about"
	PageSlugContact        = "contact"
)

// DefaultPageSlugs returns the slugs seeded on a fresh install.
func DefaultPageSlugs() []string {
	return []string{
		PageSlugHome,
		PageSlugTours,
		PageSlugVehicles,
		PageSlugAccommodations,
		PageSlugAbout,
		PageSlugContact,
	}
}
