// internal/domain/models/locality.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Locality is the administrative area (barangay) that owns reports and profiles.
type Locality struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	NameCI    string             `bson:"name_ci" json:"-"` // ← always stored
	Region    string             `bson:"region,omitempty" json:"region,omitempty"`
	Province  string             `bson:"province" json:"province"`
	City      string             `bson:"city" json:"city"`
	LogoURL   string             `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
	CreatedBy string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// LocalityPatch carries the descriptive fields an update may rewrite.
// Nil pointers are left untouched.
type LocalityPatch struct {
	Name     *string `json:"name,omitempty"`
	Region   *string `json:"region,omitempty"`
	Province *string `json:"province,omitempty"`
	City     *string `json:"city,omitempty"`
	LogoURL  *string `json:"logo_url,omitempty"`
}
