// internal/app/store/pages/pagestore.go
package pagestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/stratatour/internal/domain/content"
	"github.com/dalemusser/stratatour/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no page has the requested slug.
	ErrNotFound = errors.New("page not found")
	// ErrSlugTaken is returned when creating a page whose slug is in use.
	ErrSlugTaken = errors.New("a page with this slug already exists")
)

// Store provides access to the pages collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new page store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pages")}
}

// Create inserts a new page. The slug must be valid and unused.
func (s *Store) Create(ctx context.Context, p content.Page, editorName string) (models.Page, error) {
	if !content.ValidSlug(p.Slug) {
		return models.Page{}, fmt.Errorf("%q: %w", p.Slug, content.ErrInvalidSlug)
	}
	now := time.Now().UTC()
	doc := models.Page{
		Slug:          p.Slug,
		Title:         p.Title,
		TitleCI:       text.Fold(p.Title),
		HeroTitle:     p.HeroTitle,
		HeroSubtitle:  p.HeroSubtitle,
		HeroImageURL:  p.HeroImageURL,
		Content:       models.BlocksFromNodes(p.Content),
		CreatedAt:     now,
		UpdatedAt:     &now,
		UpdatedByName: editorName,
	}
	res, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Page{}, ErrSlugTaken
		}
		return models.Page{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc, nil
}

// GetBySlug returns a page by its slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Page, error) {
	var page models.Page
	err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Page{}, ErrNotFound
	}
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// Update replaces the mutable fields of the page with slug. The slug
// itself cannot change.
func (s *Store) Update(ctx context.Context, slug string, u content.PageUpdate, editorName string) (models.Page, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":           u.Title,
			"title_ci":        text.Fold(u.Title),
			"hero_title":      u.HeroTitle,
			"hero_subtitle":   u.HeroSubtitle,
			"hero_image_url":  u.HeroImageURL,
			"content":         models.BlocksFromNodes(u.Content),
			"updated_at":      now,
			"updated_by_name": editorName,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var page models.Page
	err := s.c.FindOneAndUpdate(ctx, bson.M{"slug": slug}, update, opts).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Page{}, ErrNotFound
	}
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// Upsert writes a page by slug, creating it when missing. Used by seeding.
func (s *Store) Upsert(ctx context.Context, p content.Page) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"title":          p.Title,
			"title_ci":       text.Fold(p.Title),
			"hero_title":     p.HeroTitle,
			"hero_subtitle":  p.HeroSubtitle,
			"hero_image_url": p.HeroImageURL,
			"content":        models.BlocksFromNodes(p.Content),
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"slug":       p.Slug,
			"created_at": now,
		},
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"slug": p.Slug}, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes the page with slug.
func (s *Store) Delete(ctx context.Context, slug string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Catalog returns slug and title of every page, ordered by title.
func (s *Store) Catalog(ctx context.Context) ([]models.PageSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "slug", Value: 1}}).
		SetProjection(bson.M{"slug": 1, "title": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	pages := []models.PageSummary{}
	if err := cur.All(ctx, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// Slugs returns every page slug.
func (s *Store) Slugs(ctx context.Context) ([]string, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, len(catalog))
	for i, p := range catalog {
		slugs[i] = p.Slug
	}
	return slugs, nil
}

// Exists checks if a page with the given slug exists.
func (s *Store) Exists(ctx context.Context, slug string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
