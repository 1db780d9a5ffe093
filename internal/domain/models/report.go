// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a periodic submission batch of profiles for one locality.
//
// NOTE:
//   - MemberCount is a denormalized count of profiles whose report_id points
//     here. Only the profile store writes it.
//   - Version is incremented by every update that goes through the report store.
type Report struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Quarter    Quarter            `bson:"quarter" json:"quarter"`
	Year       int                `bson:"year" json:"year"`
	BarangayID primitive.ObjectID `bson:"barangay_id" json:"barangay_id"`
	CreatedBy  string             `bson:"created_by,omitempty" json:"created_by,omitempty"`

	Status      ReportStatus `bson:"status" json:"status"`
	MemberCount int          `bson:"member_count" json:"member_count"`
	Version     int          `bson:"version" json:"version"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Period renders the quarter/year tag, e.g. "Q2 2024".
func (r Report) Period() string {
	if r.Quarter == "" {
		return itoa(r.Year)
	}
	return string(r.Quarter) + " " + itoa(r.Year)
}

// ReportPatch carries the report fields an update may rewrite.
// MemberCount and Version are not patchable.
type ReportPatch struct {
	Title   *string       `json:"title,omitempty"`
	Quarter *Quarter      `json:"quarter,omitempty"`
	Year    *int          `json:"year,omitempty"`
	Status  *ReportStatus `json:"status,omitempty"`
}

// Empty reports whether the patch sets nothing.
func (p ReportPatch) Empty() bool {
	return p.Title == nil && p.Quarter == nil && p.Year == nil && p.Status == nil
}
