// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings is the singleton settings document. Fields is the flat
// key/value map the editors read and replace as a whole; list-valued
// settings are JSON strings inside it.
type SiteSettings struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Singleton bool               `bson:"singleton" json:"-"`
	Fields    map[string]string  `bson:"fields" json:"fields"`

	// Audit fields
	UpdatedAt     *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByName string     `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// DefaultSiteName is the site name seeded on a fresh install.
const DefaultSiteName = "StrataTour"
