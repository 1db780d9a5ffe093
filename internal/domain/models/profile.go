// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is one youth's demographic, contact and civic-participation record.
//
// NOTE:
//   - Age is informational. It is captured by the intake form and is not
//     re-derived from the birth date fields on the server.
//   - Name holds the single-string name of records written before the name
//     was split into parts. New records leave it empty.
//   - AssemblyFrequency is only meaningful when AttendedKKAssembly is true.
type Profile struct {
	ID         primitive.ObjectID  `bson:"_id" json:"id"`
	BarangayID primitive.ObjectID  `bson:"barangay_id" json:"barangay_id"`
	ReportID   *primitive.ObjectID `bson:"report_id,omitempty" json:"report_id,omitempty"`

	Name       string `bson:"name,omitempty" json:"name,omitempty"`
	LastName   string `bson:"last_name" json:"last_name"`
	FirstName  string `bson:"first_name" json:"first_name"`
	MiddleName string `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	Suffix     string `bson:"suffix,omitempty" json:"suffix,omitempty"`

	Age        int `bson:"age" json:"age"`
	BirthMonth int `bson:"birth_month" json:"birth_month"`
	BirthDay   int `bson:"birth_day" json:"birth_day"`
	BirthYear  int `bson:"birth_year" json:"birth_year"`

	Sex                 Sex                 `bson:"sex" json:"sex"`
	CivilStatus         CivilStatus         `bson:"civil_status" json:"civil_status"`
	YouthClassification YouthClassification `bson:"youth_classification" json:"youth_classification"`
	YouthAgeGroup       YouthAgeGroup       `bson:"youth_age_group" json:"youth_age_group"`

	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`

	Region      string `bson:"region" json:"region"`
	Province    string `bson:"province" json:"province"`
	City        string `bson:"city" json:"city"`
	Barangay    string `bson:"barangay" json:"barangay"`
	Zone        string `bson:"zone" json:"zone"`
	HomeAddress string `bson:"home_address" json:"home_address"`

	EducationalAttainment EducationalAttainment `bson:"educational_attainment" json:"educational_attainment"`
	WorkStatus            WorkStatus            `bson:"work_status" json:"work_status"`

	RegisteredSKVoter       bool `bson:"registered_sk_voter" json:"registered_sk_voter"`
	VotedLastSKElection     bool `bson:"voted_last_sk_election" json:"voted_last_sk_election"`
	RegisteredNationalVoter bool `bson:"registered_national_voter" json:"registered_national_voter"`
	AttendedKKAssembly      bool `bson:"attended_kk_assembly" json:"attended_kk_assembly"`
	AssemblyFrequency       *int `bson:"assembly_frequency,omitempty" json:"assembly_frequency,omitempty"`

	Signature string `bson:"signature,omitempty" json:"signature,omitempty"` // data URI or URL

	CreatedBy string    `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Frequency returns the assembly attendance count, treating a profile that
// did not attend as 0.
func (p Profile) Frequency() int {
	if !p.AttendedKKAssembly || p.AssemblyFrequency == nil {
		return 0
	}
	return *p.AssemblyFrequency
}

// ProfilePatch carries the profile fields an edit may rewrite. Nil pointers
// are left untouched. Linkage (barangay_id, report_id) is not patchable.
type ProfilePatch struct {
	LastName   *string `json:"last_name,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	Suffix     *string `json:"suffix,omitempty"`

	Age        *int `json:"age,omitempty"`
	BirthMonth *int `json:"birth_month,omitempty"`
	BirthDay   *int `json:"birth_day,omitempty"`
	BirthYear  *int `json:"birth_year,omitempty"`

	Sex                 *Sex                 `json:"sex,omitempty"`
	CivilStatus         *CivilStatus         `json:"civil_status,omitempty"`
	YouthClassification *YouthClassification `json:"youth_classification,omitempty"`
	YouthAgeGroup       *YouthAgeGroup       `json:"youth_age_group,omitempty"`

	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	Region      *string `json:"region,omitempty"`
	Province    *string `json:"province,omitempty"`
	City        *string `json:"city,omitempty"`
	Barangay    *string `json:"barangay,omitempty"`
	Zone        *string `json:"zone,omitempty"`
	HomeAddress *string `json:"home_address,omitempty"`

	EducationalAttainment *EducationalAttainment `json:"educational_attainment,omitempty"`
	WorkStatus            *WorkStatus            `json:"work_status,omitempty"`

	RegisteredSKVoter       *bool `json:"registered_sk_voter,omitempty"`
	VotedLastSKElection     *bool `json:"voted_last_sk_election,omitempty"`
	RegisteredNationalVoter *bool `json:"registered_national_voter,omitempty"`
	AttendedKKAssembly      *bool `json:"attended_kk_assembly,omitempty"`
	AssemblyFrequency       *int  `json:"assembly_frequency,omitempty"`

	Signature *string `json:"signature,omitempty"`
}
