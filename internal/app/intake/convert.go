package intake

import (
	"strconv"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/dalemusser/skprofiles/internal/domain/models"
)

// FromDetailView fills a draft from a detail view, as posted by the edit
// form. The special-group flags have no draft input and are dropped.
func FromDetailView(v viewmodel.DetailView) Draft {
	y, m, d := viewmodel.ParseBirthdate(v.Birthdate)
	freq := v.AssemblyFrequency
	if !v.AttendedKKAssembly {
		freq = ""
	}
	return Draft{
		LastName:   v.LastName,
		FirstName:  v.FirstName,
		MiddleName: v.MiddleName,
		Suffix:     v.Suffix,

		BirthMonth: positive(m),
		BirthDay:   positive(d),
		BirthYear:  positive(y),
		Age:        positive(v.Age),

		Sex:                 v.Sex,
		CivilStatus:         v.CivilStatus,
		YouthClassification: v.YouthClassification,
		YouthAgeGroup:       v.YouthAgeGroup,

		Email: v.Email,
		Phone: v.Phone,

		Region:   v.Region,
		Province: v.Province,
		City:     v.City,
		Barangay: v.Barangay,
		Zone:     v.Zone,

		EducationalAttainment: v.EducationalAttainment,
		WorkStatus:            v.WorkStatus,

		RegisteredSKVoter:       yesNoString(v.RegisteredSKVoter),
		VotedLastSKElection:     yesNoString(v.VotedLastSKElection),
		RegisteredNationalVoter: yesNoString(v.RegisteredNationalVoter),
		AttendedKKAssembly:      yesNoString(v.AttendedKKAssembly),
		AssemblyFrequency:       freq,

		Signature: v.Signature,
	}
}

// FromProfile fills a draft from a stored profile, for editing.
func FromProfile(p models.Profile) Draft {
	return FromDetailView(viewmodel.ToDetailView(p))
}

// Edit applies changes to the stored profile cur in form order and returns
// a patch holding only the submitted fields and what they derive: age and
// age group after a birth date change, age group after an age change, and
// the home address after an address part changes. Only those fields and
// their dependents are validated, so stored values the edit leaves alone are
// neither checked nor rewritten. Answering "no" to assembly attendance
// clears the frequency in the store.
func Edit(cur models.Profile, changes map[Field]string, today time.Time) (models.ProfilePatch, error) {
	form := Form{Draft: FromProfile(cur)}
	patched := map[Field]bool{}
	checked := map[Field]bool{}
	for _, f := range Fields {
		v, ok := changes[f]
		if !ok {
			continue
		}
		form = Apply(form, f, v, today)
		patched[f], checked[f] = true, true
		switch f {
		case BirthMonth, BirthDay, BirthYear:
			patched[Age], patched[YouthAgeGroup] = true, true
			checked[BirthMonth], checked[BirthDay], checked[BirthYear] = true, true, true
		case Age:
			patched[YouthAgeGroup] = true
		case AttendedKKAssembly:
			checked[AssemblyFrequency] = true
		}
	}
	for f := range patched {
		checked[f] = true
	}

	d := Clean(form.Draft)
	errs := map[Field]string{}
	for f := range checked {
		if msg := check(d, f, today); msg != "" {
			errs[f] = msg
		}
	}
	if len(errs) > 0 {
		return models.ProfilePatch{}, validationError(errs)
	}

	p := build(d)
	var patch models.ProfilePatch
	for f := range patched {
		patchField(&patch, &p, f)
	}
	for _, f := range []Field{Region, Province, City, Barangay, Zone} {
		if patched[f] {
			patch.HomeAddress = &p.HomeAddress
			break
		}
	}
	return patch, nil
}

func patchField(patch *models.ProfilePatch, p *models.Profile, f Field) {
	switch f {
	case LastName:
		patch.LastName = &p.LastName
	case FirstName:
		patch.FirstName = &p.FirstName
	case MiddleName:
		patch.MiddleName = &p.MiddleName
	case Suffix:
		patch.Suffix = &p.Suffix
	case BirthMonth:
		patch.BirthMonth = &p.BirthMonth
	case BirthDay:
		patch.BirthDay = &p.BirthDay
	case BirthYear:
		patch.BirthYear = &p.BirthYear
	case Age:
		patch.Age = &p.Age
	case Sex:
		patch.Sex = &p.Sex
	case CivilStatus:
		patch.CivilStatus = &p.CivilStatus
	case YouthClassification:
		patch.YouthClassification = &p.YouthClassification
	case YouthAgeGroup:
		patch.YouthAgeGroup = &p.YouthAgeGroup
	case Email:
		patch.Email = &p.Email
	case Phone:
		patch.Phone = &p.Phone
	case Region:
		patch.Region = &p.Region
	case Province:
		patch.Province = &p.Province
	case City:
		patch.City = &p.City
	case Barangay:
		patch.Barangay = &p.Barangay
	case Zone:
		patch.Zone = &p.Zone
	case EducationalAttainment:
		patch.EducationalAttainment = &p.EducationalAttainment
	case WorkStatus:
		patch.WorkStatus = &p.WorkStatus
	case RegisteredSKVoter:
		patch.RegisteredSKVoter = &p.RegisteredSKVoter
	case VotedLastSKElection:
		patch.VotedLastSKElection = &p.VotedLastSKElection
	case RegisteredNationalVoter:
		patch.RegisteredNationalVoter = &p.RegisteredNationalVoter
	case AttendedKKAssembly:
		patch.AttendedKKAssembly = &p.AttendedKKAssembly
	case AssemblyFrequency:
		// "Never" while attending is stored as zero.
		if !p.AttendedKKAssembly {
			return
		}
		n := 0
		if p.AssemblyFrequency != nil {
			n = *p.AssemblyFrequency
		}
		patch.AssemblyFrequency = &n
	case Signature:
		patch.Signature = &p.Signature
	}
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func yesNoString(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
