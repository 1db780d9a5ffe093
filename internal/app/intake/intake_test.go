package intake_test

import (
	"testing"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/intake"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func completeDraft() intake.Draft {
	return intake.Draft{
		LastName:                "Santos",
		FirstName:               "Maria",
		MiddleName:              "Reyes",
		BirthMonth:              "6",
		BirthDay:                "15",
		BirthYear:               "2000",
		Sex:                     "female",
		CivilStatus:             "single",
		YouthClassification:     "in school youth",
		Email:                   "Maria@Example.com",
		Phone:                   "0917-123-4567",
		Region:                  "Region IV-A",
		Province:                "Laguna",
		City:                    "Calamba",
		Barangay:                "Uno",
		Zone:                    "Purok 3",
		EducationalAttainment:   "College Level",
		WorkStatus:              "Unemployed",
		RegisteredSKVoter:       "Yes",
		VotedLastSKElection:     "No",
		RegisteredNationalVoter: "yes",
		AttendedKKAssembly:      "Yes",
		AssemblyFrequency:       "3-4 Times",
	}
}

func TestAgeOn(t *testing.T) {
	assert.Equal(t, 23, intake.AgeOn(2000, 6, 15, day(2024, time.June, 14)))
	assert.Equal(t, 24, intake.AgeOn(2000, 6, 15, day(2024, time.June, 15)))
	assert.Equal(t, 24, intake.AgeOn(2000, 6, 15, day(2024, time.December, 1)))
	assert.Equal(t, 23, intake.AgeOn(2000, 6, 15, day(2024, time.January, 20)))
}

func TestApply_ComputesAge(t *testing.T) {
	var f intake.Form
	today := day(2024, time.June, 14)
	f = intake.Apply(f, intake.BirthYear, "2000", today)
	f = intake.Apply(f, intake.BirthMonth, "6", today)
	assert.Empty(t, f.Draft.Age, "age stays blank until the day is known")

	f = intake.Apply(f, intake.BirthDay, "15", today)
	assert.Equal(t, "23", f.Draft.Age)
	assert.Equal(t, string(models.CoreYouth), f.Draft.YouthAgeGroup)
	assert.Empty(t, f.Errors)

	f = intake.Apply(f, intake.BirthDay, "15", day(2024, time.June, 15))
	assert.Equal(t, "24", f.Draft.Age)
}

func TestApply_InvalidBirthPartBlanksAge(t *testing.T) {
	today := day(2024, time.June, 14)
	f := intake.Form{Draft: intake.Draft{BirthMonth: "6", BirthDay: "15", BirthYear: "2000", Age: "23"}}

	f = intake.Apply(f, intake.BirthMonth, "13", today)
	assert.Empty(t, f.Draft.Age)
	assert.Empty(t, f.Draft.YouthAgeGroup)
	assert.Contains(t, f.Errors, intake.BirthMonth)
	assert.NotContains(t, f.Errors, intake.Age)

	f = intake.Apply(f, intake.BirthMonth, "6", today)
	assert.Equal(t, "23", f.Draft.Age)
	assert.NotContains(t, f.Errors, intake.BirthMonth)
}

func TestApply_LeapDay(t *testing.T) {
	today := day(2024, time.June, 14)
	f := intake.Form{Draft: intake.Draft{BirthMonth: "2", BirthDay: "29"}}

	f = intake.Apply(f, intake.BirthYear, "2024", today)
	assert.NotContains(t, f.Errors, intake.BirthDay)

	f = intake.Apply(f, intake.BirthYear, "2023", today)
	assert.Contains(t, f.Errors, intake.BirthDay)
	assert.Empty(t, f.Draft.Age)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	f := intake.Form{Errors: map[intake.Field]string{intake.LastName: "is required"}}
	got := intake.Apply(f, intake.LastName, "Santos", day(2024, time.June, 14))
	assert.Empty(t, f.Draft.LastName)
	assert.Contains(t, f.Errors, intake.LastName)
	assert.NotContains(t, got.Errors, intake.LastName)
}

func TestApply_AssemblyVisibility(t *testing.T) {
	today := day(2024, time.June, 14)
	f := intake.Form{Draft: intake.Draft{AttendedKKAssembly: "Yes", AssemblyFrequency: "Once"}}
	assert.True(t, intake.Visible(f.Draft, intake.AssemblyFrequency))

	f = intake.Apply(f, intake.AttendedKKAssembly, "No", today)
	assert.False(t, intake.Visible(f.Draft, intake.AssemblyFrequency))
	assert.Empty(t, f.Draft.AssemblyFrequency)
	assert.NotContains(t, f.Errors, intake.AssemblyFrequency)

	f = intake.Apply(f, intake.AttendedKKAssembly, "Yes", today)
	assert.Equal(t, "is required", f.Errors[intake.AssemblyFrequency])
}

func TestApply_UnknownField(t *testing.T) {
	f := intake.Apply(intake.Form{}, intake.Field("nickname"), "x", day(2024, time.June, 14))
	assert.Equal(t, intake.Draft{}, f.Draft)
}

func TestValidate_BirthBounds(t *testing.T) {
	today := day(2024, time.June, 14)
	tests := []struct {
		name       string
		m, d, y    string
		wantErrors []intake.Field
	}{
		{"valid", "6", "15", "2000", nil},
		{"leap day in leap year", "2", "29", "2024", nil},
		{"leap day in 1900", "2", "29", "1900", []intake.Field{intake.BirthDay}},
		{"leap day in 2000", "2", "29", "2000", nil},
		{"feb 29 in common year", "2", "29", "2023", []intake.Field{intake.BirthDay}},
		{"april 31", "4", "31", "2000", []intake.Field{intake.BirthDay}},
		{"day 32", "1", "32", "2000", []intake.Field{intake.BirthDay}},
		{"month 0", "0", "1", "2000", []intake.Field{intake.BirthMonth}},
		{"year before 1900", "1", "1", "1899", []intake.Field{intake.BirthYear}},
		{"future year", "1", "1", "2025", []intake.Field{intake.BirthYear}},
		{"not a number", "x", "1", "2000", []intake.Field{intake.BirthMonth}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := intake.Draft{BirthMonth: tt.m, BirthDay: tt.d, BirthYear: tt.y}
			errs := intake.Validate(d, today)
			for _, f := range []intake.Field{intake.BirthMonth, intake.BirthDay, intake.BirthYear} {
				want := false
				for _, w := range tt.wantErrors {
					want = want || w == f
				}
				_, got := errs[f]
				assert.Equal(t, want, got, "error on %s", f)
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	p, err := intake.Submit(completeDraft(), day(2024, time.June, 14))
	require.NoError(t, err)

	assert.Equal(t, "Santos", p.LastName)
	assert.Equal(t, 23, p.Age)
	assert.Equal(t, 2000, p.BirthYear)
	assert.Equal(t, models.CoreYouth, p.YouthAgeGroup)
	assert.Equal(t, models.SexFemale, p.Sex)
	assert.Equal(t, models.CivilSingle, p.CivilStatus)
	assert.Equal(t, models.InSchoolYouth, p.YouthClassification)
	assert.Equal(t, "maria@example.com", p.Email)
	assert.Equal(t, "09171234567", p.Phone)
	assert.Equal(t, "Purok 3, Uno, Calamba, Laguna, Region IV-A", p.HomeAddress)
	assert.True(t, p.RegisteredSKVoter)
	assert.False(t, p.VotedLastSKElection)
	require.NotNil(t, p.AssemblyFrequency)
	assert.Equal(t, 3, *p.AssemblyFrequency)
}

func TestSubmit_BlocksIncompleteDraft(t *testing.T) {
	d := completeDraft()
	d.FirstName = "  "
	d.BirthDay = "31"
	d.BirthMonth = "4"

	p, err := intake.Submit(d, day(2024, time.June, 14))
	assert.Equal(t, models.Profile{}, p)

	verr, ok := storeerr.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Contains(t, verr.Fields, "first_name")
	assert.Contains(t, verr.Fields, "birth_day")
	assert.Contains(t, verr.Fields, "age")
}

func TestSubmit_SanitizesText(t *testing.T) {
	d := completeDraft()
	d.LastName = "<b>Dela</b>   Cruz"
	d.Zone = "Purok <script>x</script>3"
	d.Email = "NA"
	d.Phone = "na"

	p, err := intake.Submit(d, day(2024, time.June, 14))
	require.NoError(t, err)
	assert.Equal(t, "Dela Cruz", p.LastName)
	assert.Equal(t, "Purok 3", p.Zone)
	assert.Empty(t, p.Email)
	assert.Empty(t, p.Phone)
}

func TestSubmit_AgeOutsideYouthRange(t *testing.T) {
	d := completeDraft()
	d.BirthYear = "1980"

	_, err := intake.Submit(d, day(2024, time.June, 14))
	verr, ok := storeerr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "age")
}

func TestSubmit_NotAttendedDropsFrequency(t *testing.T) {
	d := completeDraft()
	d.AttendedKKAssembly = "No"
	d.AssemblyFrequency = "garbage"

	p, err := intake.Submit(d, day(2024, time.June, 14))
	require.NoError(t, err)
	assert.False(t, p.AttendedKKAssembly)
	assert.Nil(t, p.AssemblyFrequency)
}

func TestFromDetailView_RoundTrip(t *testing.T) {
	today := day(2024, time.June, 14)
	p, err := intake.Submit(completeDraft(), today)
	require.NoError(t, err)

	again, err := intake.Submit(intake.FromProfile(p), today)
	require.NoError(t, err)
	assert.Equal(t, p, again)

	v := viewmodel.ToDetailView(p)
	v.AttendedKKAssembly = false
	d := intake.FromDetailView(v)
	assert.Equal(t, "No", d.AttendedKKAssembly)
	assert.Empty(t, d.AssemblyFrequency)
}

func storedProfile() models.Profile {
	four := 4
	return models.Profile{
		LastName: "Santos", FirstName: "Maria",
		Age: 23, BirthMonth: 6, BirthDay: 15, BirthYear: 2000,
		Sex: models.SexFemale, CivilStatus: models.CivilSingle,
		YouthClassification: models.InSchoolYouth, YouthAgeGroup: models.CoreYouth,
		Email: "NA", Phone: "09171234567",
		Region: "IV-A", Province: "Laguna", City: "Calamba", Barangay: "Pob", Zone: "1",
		HomeAddress:           "Blk 5 Lot 2, Purok 1",
		EducationalAttainment: "College Level", WorkStatus: "Unemployed",
		AttendedKKAssembly: true, AssemblyFrequency: &four,
	}
}

func TestEdit_OnlySubmittedFields(t *testing.T) {
	patch, err := intake.Edit(storedProfile(), map[intake.Field]string{intake.Phone: "09181112222"}, day(2024, time.June, 14))
	require.NoError(t, err)

	require.NotNil(t, patch.Phone)
	assert.Equal(t, models.ProfilePatch{Phone: patch.Phone}, patch)
}

func TestEdit_IgnoresStaleStoredValues(t *testing.T) {
	cur := storedProfile()
	cur.Age = 31

	patch, err := intake.Edit(cur, map[intake.Field]string{intake.Zone: "2"}, day(2024, time.June, 14))
	require.NoError(t, err)
	require.NotNil(t, patch.Zone)
	assert.Equal(t, "2", *patch.Zone)
	require.NotNil(t, patch.HomeAddress)
	assert.Equal(t, "2, Pob, Calamba, Laguna, IV-A", *patch.HomeAddress)
	assert.Nil(t, patch.Age)
}

func TestEdit_BirthDateDerivesAge(t *testing.T) {
	patch, err := intake.Edit(storedProfile(), map[intake.Field]string{intake.BirthYear: "2001"}, day(2024, time.June, 14))
	require.NoError(t, err)

	require.NotNil(t, patch.Age)
	assert.Equal(t, 22, *patch.Age)
	require.NotNil(t, patch.YouthAgeGroup)
	assert.Equal(t, models.CoreYouth, *patch.YouthAgeGroup)
	assert.Nil(t, patch.BirthMonth)
	assert.Nil(t, patch.AssemblyFrequency)
}

func TestEdit_Invalid(t *testing.T) {
	_, err := intake.Edit(storedProfile(), map[intake.Field]string{intake.BirthDay: "31"}, day(2024, time.June, 14))
	verr, ok := storeerr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, string(intake.BirthDay))
}

func TestEdit_AttendanceNeedsFrequency(t *testing.T) {
	cur := storedProfile()
	cur.AttendedKKAssembly = false
	cur.AssemblyFrequency = nil

	_, err := intake.Edit(cur, map[intake.Field]string{intake.AttendedKKAssembly: "Yes"}, day(2024, time.June, 14))
	verr, ok := storeerr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, string(intake.AssemblyFrequency))

	patch, err := intake.Edit(cur, map[intake.Field]string{
		intake.AttendedKKAssembly: "Yes",
		intake.AssemblyFrequency:  "Once",
	}, day(2024, time.June, 14))
	require.NoError(t, err)
	require.NotNil(t, patch.AssemblyFrequency)
	assert.Equal(t, 1, *patch.AssemblyFrequency)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, intake.DaysIn(2, 2024))
	assert.Equal(t, 28, intake.DaysIn(2, 2023))
	assert.Equal(t, 28, intake.DaysIn(2, 1900))
	assert.Equal(t, 29, intake.DaysIn(2, 2000))
	assert.Equal(t, 30, intake.DaysIn(9, 2023))
	assert.Equal(t, 31, intake.DaysIn(12, 2023))
}
