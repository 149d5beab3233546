// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratatour/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the site_settings collection.
// There is a single settings document per site.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("site_settings")}
}

var singletonFilter = bson.M{"singleton": true}

// Get returns the stored settings fields.
// If no settings exist, it returns an empty map.
func (s *Store) Get(ctx context.Context) (map[string]string, error) {
	doc, err := s.Document(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Fields, nil
}

// Document returns the settings document with its audit fields.
// A missing document is returned as an empty one.
func (s *Store) Document(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, singletonFilter).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SiteSettings{Singleton: true, Fields: map[string]string{}}, nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	if settings.Fields == nil {
		settings.Fields = map[string]string{}
	}
	return settings, nil
}

// Replace stores fields as the complete settings map. Keys absent from
// fields are removed. Uses upsert so it works whether settings exist or not.
func (s *Store) Replace(ctx context.Context, fields map[string]string, editorName string) error {
	if fields == nil {
		fields = map[string]string{}
	}
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"singleton":       true,
			"fields":          fields,
			"updated_at":      now,
			"updated_by_name": editorName,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, singletonFilter, update, opts)
	return err
}

// Exists checks if settings have been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, singletonFilter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
