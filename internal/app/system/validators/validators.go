// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// collectionSpec is one collection this service owns and its optional
// JSON-Schema validator.
type collectionSpec struct {
	name   string
	schema bson.M
}

func collections() []collectionSpec {
	return []collectionSpec{
		{"pages", pagesSchema()},
		{"site_settings", siteSettingsSchema()},
		{"audit_logs", nil},
	}
}

// EnsureAll creates missing collections and attaches their validators.
// Servers without collMod support (some DocumentDB versions) skip the
// validator with a log line. Problems are aggregated.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall back to create-and-tolerate-exists for every collection.
		existing = nil
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range collections() {
		if !have[c.name] {
			if err := createCollection(ctx, db, c.name); err != nil {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema); err != nil {
			if unsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// createCollection creates name; losing a creation race is not an error.
func createCollection(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name)
	switch {
	case err == nil:
		zap.L().Info("created collection", zap.String("collection", name))
		return nil
	case namespaceExists(err):
		return nil
	default:
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- server error classes ------------------------- */

// commandError reports whether err is a server error with one of codes or
// whose text contains one of phrases (case-insensitive).
func commandError(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// namespaceExists matches NamespaceExists (48).
func namespaceExists(err error) bool {
	return commandError(err, []int32{48}, "already exists", "namespace exists")
}

// unsupported matches CommandNotFound (59) and NotImplemented (115).
func unsupported(err error) bool {
	return commandError(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// pagesSchema requires a slug and title. Content blocks must carry a
// string type; anything else in a block is kept as-is.
func pagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"slug", "title"},
			"properties": bson.M{
				"slug":     bson.M{"bsonType": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
				"title":    bson.M{"bsonType": "string"},
				"title_ci": bson.M{"bsonType": "string"},
				"content": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"type"},
						"properties": bson.M{
							"type": bson.M{"bsonType": "string"},
						},
					},
				},
			},
		},
	}
}

// siteSettingsSchema keeps every stored setting a string.
func siteSettingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"singleton", "fields"},
			"properties": bson.M{
				"singleton": bson.M{"enum": bson.A{true}},
				"fields": bson.M{
					"bsonType":             "object",
					"additionalProperties": bson.M{"bsonType": "string"},
				},
			},
		},
	}
}
