package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data directly in the
// collections, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateLocality inserts a locality with the given name and province.
func (f *Fixtures) CreateLocality(ctx context.Context, name, province string) models.Locality {
	f.t.Helper()

	now := time.Now().UTC()
	loc := models.Locality{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Region:    "Region IV-A",
		Province:  province,
		City:      "Test City",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("localities").InsertOne(ctx, loc); err != nil {
		f.t.Fatalf("failed to create test locality: %v", err)
	}
	return loc
}

// CreateReport inserts an empty draft report owned by barangayID.
func (f *Fixtures) CreateReport(ctx context.Context, title string, barangayID primitive.ObjectID) models.Report {
	f.t.Helper()

	now := time.Now().UTC()
	rep := models.Report{
		ID:         primitive.NewObjectID(),
		Title:      title,
		Quarter:    models.Q1,
		Year:       2024,
		BarangayID: barangayID,
		Status:     models.StatusDraft,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("reports").InsertOne(ctx, rep); err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}
	return rep
}

// NewProfile returns an unsaved, fully populated profile for barangayID.
func NewProfile(barangayID primitive.ObjectID, last, first string) models.Profile {
	freq := 2
	return models.Profile{
		BarangayID:              barangayID,
		LastName:                last,
		FirstName:               first,
		MiddleName:              "Santos",
		Age:                     23,
		BirthMonth:              6,
		BirthDay:                15,
		BirthYear:               2000,
		Sex:                     models.SexFemale,
		CivilStatus:             models.CivilSingle,
		YouthClassification:     models.InSchoolYouth,
		YouthAgeGroup:           models.CoreYouth,
		Email:                   "youth@example.com",
		Phone:                   "09171234567",
		Region:                  "Region IV-A",
		Province:                "Laguna",
		City:                    "Calamba",
		Barangay:                "Barangay Uno",
		Zone:                    "Purok 1",
		HomeAddress:             "Purok 1, Barangay Uno, Calamba, Laguna, Region IV-A",
		EducationalAttainment:   "College Level",
		WorkStatus:              "Unemployed",
		RegisteredSKVoter:       true,
		VotedLastSKElection:     true,
		RegisteredNationalVoter: false,
		AttendedKKAssembly:      true,
		AssemblyFrequency:       &freq,
	}
}

// CreateProfile inserts a profile directly. It does not touch any report
// counter; use the profile store for that.
func (f *Fixtures) CreateProfile(ctx context.Context, p models.Profile) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// MemberCount reads the stored member_count of a report.
func (f *Fixtures) MemberCount(ctx context.Context, reportID primitive.ObjectID) int {
	f.t.Helper()

	var r models.Report
	if err := f.db.Collection("reports").FindOne(ctx, bson.M{"_id": reportID}).Decode(&r); err != nil {
		f.t.Fatalf("failed to load report %s: %v", reportID.Hex(), err)
	}
	return r.MemberCount
}
