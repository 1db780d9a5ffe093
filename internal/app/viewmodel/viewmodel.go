// Package viewmodel maps stored profiles to the two shapes the UI works
// with: the flat row of a profile table and the structured detail view that
// backs the view and edit forms.
//
// The functions here are pure and total. Malformed input produces zero
// values, never an error.
package viewmodel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/skprofiles/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assembly attendance buckets shown on the form.
const (
	FreqNever     = "Never"
	FreqOnce      = "Once"
	FreqOneTwo    = "1-2 Times"
	FreqThreeFour = "3-4 Times"
	FreqFivePlus  = "5+ Times"
)

// Placeholder is written into email and phone by older intake screens when
// the youth has none.
const Placeholder = "NA"

// DetailView is the structured profile shape of the detail and edit forms.
type DetailView struct {
	ID         string `json:"id,omitempty"`
	BarangayID string `json:"barangay_id"`
	ReportID   string `json:"report_id,omitempty"`

	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Suffix     string `json:"suffix"`

	Birthdate string `json:"birthdate"` // YYYY-MM-DD
	Age       int    `json:"age"`

	Sex                 string `json:"sex"`
	CivilStatus         string `json:"civil_status"`
	YouthClassification string `json:"youth_classification"`
	YouthAgeGroup       string `json:"youth_age_group"`

	Email string `json:"email"`
	Phone string `json:"phone"`

	Region      string `json:"region"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Barangay    string `json:"barangay"`
	Zone        string `json:"zone"`
	HomeAddress string `json:"home_address"`

	EducationalAttainment string `json:"educational_attainment"`
	WorkStatus            string `json:"work_status"`

	RegisteredSKVoter       bool   `json:"registered_sk_voter"`
	VotedLastSKElection     bool   `json:"voted_last_sk_election"`
	RegisteredNationalVoter bool   `json:"registered_national_voter"`
	AttendedKKAssembly      bool   `json:"attended_kk_assembly"`
	AssemblyFrequency       string `json:"assembly_frequency"`

	// Special groups. Profiles have no field for these, so ToDetailView
	// always leaves them false and FromDetailView drops them.
	PersonWithDisability bool `json:"person_with_disability"`
	SoloParent           bool `json:"solo_parent"`
	ConflictWithLaw      bool `json:"conflict_with_law"`
	Indigenous           bool `json:"indigenous"`

	Signature string `json:"signature,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListView is one row of a profile table.
type ListView struct {
	ID                  string `json:"id"`
	ReportID            string `json:"report_id,omitempty"`
	LastName            string `json:"last_name"`
	FirstName           string `json:"first_name"`
	DisplayName         string `json:"display_name"`
	Age                 int    `json:"age"`
	Sex                 string `json:"sex"`
	YouthClassification string `json:"youth_classification"`
	YouthAgeGroup       string `json:"youth_age_group"`
	Zone                string `json:"zone"`
}

// Name holds the parts of a person's name.
type Name struct {
	First  string
	Middle string
	Last   string
	Suffix string
}

// ToDetailView converts a stored profile to the detail view. Records that
// only carry the legacy single-string name have it split into parts.
func ToDetailView(p models.Profile) DetailView {
	n := NameOf(p)
	v := DetailView{
		ID:         hexOrEmpty(p.ID),
		BarangayID: hexOrEmpty(p.BarangayID),

		FirstName:  n.First,
		MiddleName: n.Middle,
		LastName:   n.Last,
		Suffix:     n.Suffix,

		Birthdate: FormatBirthdate(p.BirthYear, p.BirthMonth, p.BirthDay),
		Age:       p.Age,

		Sex:                 string(p.Sex),
		CivilStatus:         string(p.CivilStatus),
		YouthClassification: string(p.YouthClassification),
		YouthAgeGroup:       string(p.YouthAgeGroup),

		Email: dropPlaceholder(p.Email),
		Phone: dropPlaceholder(p.Phone),

		Region:      p.Region,
		Province:    p.Province,
		City:        p.City,
		Barangay:    p.Barangay,
		Zone:        p.Zone,
		HomeAddress: p.HomeAddress,

		EducationalAttainment: string(p.EducationalAttainment),
		WorkStatus:            string(p.WorkStatus),

		RegisteredSKVoter:       p.RegisteredSKVoter,
		VotedLastSKElection:     p.VotedLastSKElection,
		RegisteredNationalVoter: p.RegisteredNationalVoter,
		AttendedKKAssembly:      p.AttendedKKAssembly,
		AssemblyFrequency:       FrequencyBucket(p.Frequency()),

		Signature: p.Signature,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.ReportID != nil {
		v.ReportID = p.ReportID.Hex()
	}
	if v.HomeAddress == "" {
		v.HomeAddress = HomeAddress(p.Zone, p.Barangay, p.City, p.Province, p.Region)
	}
	return v
}

// FromDetailView converts a detail view back to a profile. The birth date is
// split into its parts, the frequency bucket becomes an approximate count,
// and the home address is rebuilt from the address parts. Ids that do not
// parse are left zero.
func FromDetailView(v DetailView) models.Profile {
	y, m, d := ParseBirthdate(v.Birthdate)
	p := models.Profile{
		ID:         parseID(v.ID),
		BarangayID: parseID(v.BarangayID),

		LastName:   strings.TrimSpace(v.LastName),
		FirstName:  strings.TrimSpace(v.FirstName),
		MiddleName: strings.TrimSpace(v.MiddleName),
		Suffix:     strings.TrimSpace(v.Suffix),

		Age:        v.Age,
		BirthYear:  y,
		BirthMonth: m,
		BirthDay:   d,

		Sex:                 models.Sex(v.Sex),
		CivilStatus:         models.CivilStatus(v.CivilStatus),
		YouthClassification: models.YouthClassification(v.YouthClassification),
		YouthAgeGroup:       models.YouthAgeGroup(v.YouthAgeGroup),

		Email: dropPlaceholder(v.Email),
		Phone: dropPlaceholder(v.Phone),

		Region:      v.Region,
		Province:    v.Province,
		City:        v.City,
		Barangay:    v.Barangay,
		Zone:        v.Zone,
		HomeAddress: HomeAddress(v.Zone, v.Barangay, v.City, v.Province, v.Region),

		EducationalAttainment: models.EducationalAttainment(v.EducationalAttainment),
		WorkStatus:            models.WorkStatus(v.WorkStatus),

		RegisteredSKVoter:       v.RegisteredSKVoter,
		VotedLastSKElection:     v.VotedLastSKElection,
		RegisteredNationalVoter: v.RegisteredNationalVoter,
		AttendedKKAssembly:      v.AttendedKKAssembly,

		Signature: v.Signature,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if id := parseID(v.ReportID); !id.IsZero() {
		p.ReportID = &id
	}
	if n := FrequencyCount(v.AssemblyFrequency); v.AttendedKKAssembly && n > 0 {
		p.AssemblyFrequency = &n
	}
	return p
}

// ToListView converts a stored profile to a table row.
func ToListView(p models.Profile) ListView {
	v := ListView{
		ID:                  hexOrEmpty(p.ID),
		LastName:            p.LastName,
		FirstName:           p.FirstName,
		DisplayName:         DisplayName(NameOf(p)),
		Age:                 p.Age,
		Sex:                 string(p.Sex),
		YouthClassification: string(p.YouthClassification),
		YouthAgeGroup:       string(p.YouthAgeGroup),
		Zone:                p.Zone,
	}
	if p.ReportID != nil {
		v.ReportID = p.ReportID.Hex()
	}
	return v
}

// ByName orders rows the way the profile listings are sorted: stored last
// name, then first name, then id.
func ByName(a, b ListView) bool {
	if a.LastName != b.LastName {
		return a.LastName < b.LastName
	}
	if a.FirstName != b.FirstName {
		return a.FirstName < b.FirstName
	}
	return a.ID < b.ID
}

// ToListViews converts a slice of profiles, preserving order.
func ToListViews(ps []models.Profile) []ListView {
	out := make([]ListView, 0, len(ps))
	for _, p := range ps {
		out = append(out, ToListView(p))
	}
	return out
}

// DisplayName renders "Last, First M. Suffix".
func DisplayName(n Name) string {
	var b strings.Builder
	b.WriteString(n.Last)
	if n.First != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.First)
	}
	if r := []rune(n.Middle); len(r) > 0 {
		b.WriteString(" " + strings.ToUpper(string(r[0])) + ".")
	}
	if n.Suffix != "" {
		b.WriteString(" " + n.Suffix)
	}
	return b.String()
}

// FrequencyBucket maps an attendance count to its form bucket.
func FrequencyBucket(n int) string {
	switch {
	case n <= 0:
		return FreqNever
	case n == 1:
		return FreqOnce
	case n == 2:
		return FreqOneTwo
	case n == 3:
		return FreqThreeFour
	default:
		return FreqFivePlus
	}
}

// FrequencyCount maps a form bucket back to a representative count. It is
// not an exact inverse of FrequencyBucket: 4 and above all come back as 5.
func FrequencyCount(bucket string) int {
	switch bucket {
	case FreqOnce:
		return 1
	case FreqOneTwo:
		return 2
	case FreqThreeFour:
		return 3
	case FreqFivePlus:
		return 5
	default:
		return 0
	}
}

// FormatBirthdate renders YYYY-MM-DD, or "" when any part is missing.
func FormatBirthdate(year, month, day int) string {
	if year <= 0 || month <= 0 || day <= 0 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// ParseBirthdate splits YYYY-MM-DD into its parts. Parts that do not parse
// come back as 0. The date itself is not validated.
func ParseBirthdate(s string) (year, month, day int) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return 0, 0, 0
	}
	atoi := func(s string) int {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return atoi(parts[0]), atoi(parts[1]), atoi(parts[2])
}

// HomeAddress joins the non-empty address parts with ", ".
func HomeAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func dropPlaceholder(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), Placeholder) {
		return ""
	}
	return s
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}

func parseID(s string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
