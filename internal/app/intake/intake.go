// Package intake holds the derived state of the profile intake form: the
// age computed from the birth date, the age group computed from the age,
// which inputs are shown, and the per-field validation errors. Submit turns
// a complete draft into a profile.
package intake

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skprofiles/internal/app/system/normalize"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/dalemusser/skprofiles/internal/domain/models"
)

const (
	MinBirthYear = 1900
	MinAge       = 15
	MaxAge       = 30
)

// Form is a draft plus the validation errors currently shown next to its
// inputs.
type Form struct {
	Draft  Draft            `json:"draft"`
	Errors map[Field]string `json:"errors"`
}

// Apply records a change of field to value and returns the updated form.
// The input form is not modified.
//
// Changing a birth date part revalidates the filled-in parts and recomputes
// age and age group. Age is left blank when the month, day or year is missing or
// invalid. Answering anything but "yes" to assembly attendance clears the
// frequency. Only the inputs touched by the change are revalidated.
func Apply(f Form, field Field, value string, today time.Time) Form {
	out := Form{Draft: f.Draft, Errors: make(map[Field]string, len(f.Errors))}
	for k, v := range f.Errors {
		out.Errors[k] = v
	}
	if !out.Draft.Set(field, value) {
		return out
	}

	touched := []Field{field}
	var derived []Field
	switch field {
	case BirthMonth, BirthDay, BirthYear:
		for _, b := range []Field{BirthMonth, BirthDay, BirthYear} {
			if b != field {
				derived = append(derived, b)
			}
		}
		derived = append(derived, Age, YouthAgeGroup)
		out.Draft.Age = ""
		if age, ok := birthAge(out.Draft, today); ok {
			out.Draft.Age = strconv.Itoa(age)
		}
		out.Draft.YouthAgeGroup = string(deriveGroup(out.Draft.Age))
	case Age:
		derived = []Field{YouthAgeGroup}
		if g := deriveGroup(out.Draft.Age); g != "" {
			out.Draft.YouthAgeGroup = string(g)
		}
	case AttendedKKAssembly:
		touched = append(touched, AssemblyFrequency)
		if !Visible(out.Draft, AssemblyFrequency) {
			out.Draft.AssemblyFrequency = ""
		}
	}

	for _, t := range touched {
		out.setError(t, check(out.Draft, t, today))
	}
	// Blank siblings and derived fields are not the user's mistake yet;
	// Submit reports them.
	for _, t := range derived {
		msg := ""
		if out.Draft.Get(t) != "" {
			msg = check(out.Draft, t, today)
		}
		out.setError(t, msg)
	}
	return out
}

func (f *Form) setError(field Field, msg string) {
	if msg == "" {
		delete(f.Errors, field)
		return
	}
	f.Errors[field] = msg
}

// Visible reports whether field is shown for d.
func Visible(d Draft, field Field) bool {
	if field == AssemblyFrequency {
		v, ok := yesNo(d.AttendedKKAssembly)
		return ok && v
	}
	return true
}

// Validate checks every visible field and returns the errors keyed by field.
func Validate(d Draft, today time.Time) map[Field]string {
	errs := map[Field]string{}
	for _, f := range Fields {
		if msg := check(d, f, today); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// Submit validates d and builds the profile it describes. Nothing is
// returned but a *storeerr.ValidationError if any required field is empty
// or any field is invalid. Linkage and timestamps are left to the caller.
func Submit(d Draft, today time.Time) (models.Profile, error) {
	d = Clean(d)
	if d.Age == "" {
		if age, ok := birthAge(d, today); ok {
			d.Age = strconv.Itoa(age)
		}
	}
	if g := deriveGroup(d.Age); g != "" {
		d.YouthAgeGroup = string(g)
	}

	if errs := Validate(d, today); len(errs) > 0 {
		return models.Profile{}, validationError(errs)
	}
	return build(d), nil
}

func validationError(errs map[Field]string) error {
	fields := make(map[string]string, len(errs))
	for f, msg := range errs {
		fields[string(f)] = msg
	}
	return &storeerr.ValidationError{Fields: fields}
}

// build converts a cleaned draft to a profile without validating it.
func build(d Draft) models.Profile {
	p := models.Profile{
		LastName:   d.LastName,
		FirstName:  d.FirstName,
		MiddleName: d.MiddleName,
		Suffix:     d.Suffix,

		Email: d.Email,
		Phone: d.Phone,

		Region:      d.Region,
		Province:    d.Province,
		City:        d.City,
		Barangay:    d.Barangay,
		Zone:        d.Zone,
		HomeAddress: viewmodel.HomeAddress(d.Zone, d.Barangay, d.City, d.Province, d.Region),

		Signature: d.Signature,
	}
	p.BirthMonth, _ = strconv.Atoi(d.BirthMonth)
	p.BirthDay, _ = strconv.Atoi(d.BirthDay)
	p.BirthYear, _ = strconv.Atoi(d.BirthYear)
	p.Age, _ = strconv.Atoi(d.Age)

	p.Sex, _ = models.Canonical(models.Sexes, d.Sex)
	p.CivilStatus, _ = models.Canonical(models.CivilStatuses, d.CivilStatus)
	p.YouthClassification, _ = models.Canonical(models.YouthClassifications, d.YouthClassification)
	p.YouthAgeGroup, _ = models.Canonical(models.YouthAgeGroups, d.YouthAgeGroup)
	p.EducationalAttainment, _ = models.Canonical(models.EducationalAttainments, d.EducationalAttainment)
	p.WorkStatus, _ = models.Canonical(models.WorkStatuses, d.WorkStatus)

	p.RegisteredSKVoter, _ = yesNo(d.RegisteredSKVoter)
	p.VotedLastSKElection, _ = yesNo(d.VotedLastSKElection)
	p.RegisteredNationalVoter, _ = yesNo(d.RegisteredNationalVoter)
	p.AttendedKKAssembly, _ = yesNo(d.AttendedKKAssembly)
	if p.AttendedKKAssembly {
		if n, ok := frequency(d.AssemblyFrequency); ok && n > 0 {
			p.AssemblyFrequency = &n
		}
	}
	return p
}

// Clean strips markup and stray whitespace from every text input, turns the
// "NA" placeholder into an empty value, and normalizes email and phone.
func Clean(d Draft) Draft {
	for _, f := range Fields {
		v := htmlsanitize.PlainText(d.Get(f))
		switch f {
		case Signature:
			v = strings.TrimSpace(d.Signature)
		case Email:
			v = normalize.Email(v)
		case Phone:
			v = normalize.Phone(v)
		default:
			v = normalize.Name(v)
		}
		if strings.EqualFold(v, viewmodel.Placeholder) && (f == Email || f == Phone) {
			v = ""
		}
		d.Set(f, v)
	}
	return d
}

var required = map[Field]bool{
	LastName: true, FirstName: true,
	BirthMonth: true, BirthDay: true, BirthYear: true, Age: true,
	Sex: true, CivilStatus: true, YouthClassification: true, YouthAgeGroup: true,
	Region: true, Province: true, City: true, Barangay: true, Zone: true,
	EducationalAttainment: true, WorkStatus: true,
	RegisteredSKVoter: true, VotedLastSKElection: true, RegisteredNationalVoter: true,
	AttendedKKAssembly: true, AssemblyFrequency: true,
}

// check returns the error message for field, or "".
func check(d Draft, field Field, today time.Time) string {
	if !Visible(d, field) {
		return ""
	}
	v := strings.TrimSpace(d.Get(field))
	if v == "" {
		if required[field] {
			return "is required"
		}
		return ""
	}

	switch field {
	case BirthMonth:
		if m, ok := atoi(v); !ok || m < 1 || m > 12 {
			return "must be a month from 1 to 12"
		}
	case BirthDay:
		day, ok := atoi(v)
		if !ok || day < 1 || day > 31 {
			return "must be a day from 1 to 31"
		}
		m, okM := atoi(d.BirthMonth)
		if !okM || m < 1 || m > 12 {
			return ""
		}
		y, okY := atoi(d.BirthYear)
		if !okY {
			y = 2000 // unknown year: allow Feb 29 until one is given
		}
		if day > DaysIn(m, y) {
			return "is not a day of that month"
		}
	case BirthYear:
		if y, ok := atoi(v); !ok || y < MinBirthYear || y > today.Year() {
			return "must be a year from 1900 to " + strconv.Itoa(today.Year())
		}
	case Age:
		if a, ok := atoi(v); !ok || a < MinAge || a > MaxAge {
			return "must be from 15 to 30"
		}
	case Sex:
		return oneOf(models.Sexes, v)
	case CivilStatus:
		return oneOf(models.CivilStatuses, v)
	case YouthClassification:
		return oneOf(models.YouthClassifications, v)
	case YouthAgeGroup:
		return oneOf(models.YouthAgeGroups, v)
	case EducationalAttainment:
		return oneOf(models.EducationalAttainments, v)
	case WorkStatus:
		return oneOf(models.WorkStatuses, v)
	case RegisteredSKVoter, VotedLastSKElection, RegisteredNationalVoter, AttendedKKAssembly:
		if _, ok := yesNo(v); !ok {
			return "must be yes or no"
		}
	case AssemblyFrequency:
		if _, ok := frequency(v); !ok {
			return "must be Once, 1-2 Times, 3-4 Times or 5+ Times"
		}
	case Email:
		if strings.EqualFold(v, viewmodel.Placeholder) {
			return ""
		}
		if _, err := mail.ParseAddress(v); err != nil {
			return "is not a valid email address"
		}
	case Signature:
		if !strings.HasPrefix(v, "data:image/") && !strings.HasPrefix(v, "https://") && !strings.HasPrefix(v, "http://") {
			return "must be an image data URI or URL"
		}
	}
	return ""
}

// AgeOn returns the age on today of someone born on year-month-day.
func AgeOn(year, month, day int, today time.Time) int {
	age := today.Year() - year
	if int(today.Month()) < month || (int(today.Month()) == month && today.Day() < day) {
		age--
	}
	return age
}

// DaysIn returns the number of days in month of year.
func DaysIn(month, year int) int {
	switch month {
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}

func IsLeap(year int) bool {
	return year%4 == 0 && year%100 != 0 || year%400 == 0
}

// birthAge computes the age from the draft's birth date parts, failing when
// any part is missing or invalid.
func birthAge(d Draft, today time.Time) (int, bool) {
	for _, f := range []Field{BirthMonth, BirthDay, BirthYear} {
		if strings.TrimSpace(d.Get(f)) == "" || check(d, f, today) != "" {
			return 0, false
		}
	}
	m, _ := atoi(d.BirthMonth)
	day, _ := atoi(d.BirthDay)
	y, _ := atoi(d.BirthYear)
	return AgeOn(y, m, day, today), true
}

func deriveGroup(age string) models.YouthAgeGroup {
	a, ok := atoi(age)
	if !ok {
		return ""
	}
	return models.AgeGroupFor(a)
}

func oneOf[T ~string](vals []T, v string) string {
	if _, ok := models.Canonical(vals, v); ok {
		return ""
	}
	names := make([]string, len(vals))
	for i, x := range vals {
		names[i] = string(x)
	}
	return "must be one of: " + strings.Join(names, ", ")
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func yesNo(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}

// frequency accepts a form bucket or a whole number of times attended.
func frequency(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, ok := atoi(s); ok {
		return n, n >= 0
	}
	for _, b := range []string{viewmodel.FreqNever, viewmodel.FreqOnce, viewmodel.FreqOneTwo, viewmodel.FreqThreeFour, viewmodel.FreqFivePlus} {
		if strings.EqualFold(s, b) {
			return viewmodel.FrequencyCount(b), true
		}
	}
	return 0, false
}
