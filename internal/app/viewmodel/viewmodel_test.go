package viewmodel_test

import (
	"testing"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/dalemusser/skprofiles/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleView() viewmodel.DetailView {
	return viewmodel.DetailView{
		ID:                      primitive.NewObjectID().Hex(),
		BarangayID:              primitive.NewObjectID().Hex(),
		ReportID:                primitive.NewObjectID().Hex(),
		FirstName:               "Maria Clara",
		MiddleName:              "Reyes",
		LastName:                "Santos",
		Suffix:                  "Jr.",
		Birthdate:               "2001-03-09",
		Age:                     23,
		Sex:                     string(models.SexFemale),
		CivilStatus:             string(models.CivilSingle),
		YouthClassification:     "In School Youth",
		YouthAgeGroup:           "Core Youth (18-24 yrs old)",
		Email:                   "maria@example.com",
		Phone:                   "09171234567",
		Region:                  "Region IV-A",
		Province:                "Laguna",
		City:                    "Calamba",
		Barangay:                "Uno",
		Zone:                    "Zone 3",
		HomeAddress:             "Zone 3, Uno, Calamba, Laguna, Region IV-A",
		EducationalAttainment:   "College Level",
		WorkStatus:              "Unemployed",
		RegisteredSKVoter:       true,
		VotedLastSKElection:     false,
		RegisteredNationalVoter: true,
		AttendedKKAssembly:      true,
		AssemblyFrequency:       viewmodel.FreqThreeFour,
		Signature:               "data:image/png;base64,AAAA",
		CreatedBy:               "user-1",
		CreatedAt:               time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:               time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestRoundTrip_DetailView(t *testing.T) {
	x := sampleView()
	got := viewmodel.ToDetailView(viewmodel.FromDetailView(x))
	assert.Equal(t, x, got)
}

func TestRoundTrip_DropsSpecialGroups(t *testing.T) {
	x := sampleView()
	x.PersonWithDisability = true
	x.SoloParent = true
	x.ConflictWithLaw = true
	x.Indigenous = true

	got := viewmodel.ToDetailView(viewmodel.FromDetailView(x))
	assert.False(t, got.PersonWithDisability)
	assert.False(t, got.SoloParent)
	assert.False(t, got.ConflictWithLaw)
	assert.False(t, got.Indigenous)

	x.PersonWithDisability, x.SoloParent, x.ConflictWithLaw, x.Indigenous = false, false, false, false
	assert.Equal(t, x, got)
}

func TestRoundTrip_Profile(t *testing.T) {
	rep := primitive.NewObjectID()
	p := testutil.NewProfile(primitive.NewObjectID(), "Dela Cruz", "Juan")
	p.ID = primitive.NewObjectID()
	p.ReportID = &rep
	p.HomeAddress = viewmodel.HomeAddress(p.Zone, p.Barangay, p.City, p.Province, p.Region)

	got := viewmodel.FromDetailView(viewmodel.ToDetailView(p))
	assert.Equal(t, p, got)
}

func TestFrequency_RoundTrip(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 5},
		{5, 5},
		{9, 5},
	}
	for _, tt := range tests {
		got := viewmodel.FrequencyCount(viewmodel.FrequencyBucket(tt.in))
		assert.Equal(t, tt.want, got, "frequency %d", tt.in)
	}
	assert.Equal(t, viewmodel.FreqNever, viewmodel.FrequencyBucket(0))
	assert.Equal(t, 0, viewmodel.FrequencyCount("sometimes"))
}

func TestFromDetailView_FrequencyRequiresAttendance(t *testing.T) {
	x := sampleView()
	x.AttendedKKAssembly = false
	p := viewmodel.FromDetailView(x)
	assert.Nil(t, p.AssemblyFrequency)

	x = sampleView()
	x.AssemblyFrequency = viewmodel.FreqNever
	p = viewmodel.FromDetailView(x)
	assert.Nil(t, p.AssemblyFrequency)
}

func TestToDetailView_Placeholders(t *testing.T) {
	p := testutil.NewProfile(primitive.NewObjectID(), "Lim", "Ana")
	p.Email = "NA"
	p.Phone = "na"

	v := viewmodel.ToDetailView(p)
	assert.Empty(t, v.Email)
	assert.Empty(t, v.Phone)
}

func TestToDetailView_NotAttendedIsNever(t *testing.T) {
	p := testutil.NewProfile(primitive.NewObjectID(), "Lim", "Ana")
	p.AttendedKKAssembly = false
	assert.Equal(t, viewmodel.FreqNever, viewmodel.ToDetailView(p).AssemblyFrequency)
}

func TestToDetailView_LegacyName(t *testing.T) {
	p := models.Profile{Name: "Santos, Maria Clara Reyes jr"}
	v := viewmodel.ToDetailView(p)
	assert.Equal(t, "Santos", v.LastName)
	assert.Equal(t, "Maria Clara", v.FirstName)
	assert.Equal(t, "Reyes", v.MiddleName)
	assert.Equal(t, "jr", v.Suffix, "suffix is kept as written")
	assert.Empty(t, v.Birthdate)
	assert.Empty(t, v.ID)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want viewmodel.Name
	}{
		{"", viewmodel.Name{}},
		{"Santos", viewmodel.Name{Last: "Santos"}},
		{"Santos, Maria", viewmodel.Name{Last: "Santos", First: "Maria"}},
		{"Santos, Maria Reyes", viewmodel.Name{Last: "Santos", First: "Maria", Middle: "Reyes"}},
		{"Santos, Jose III", viewmodel.Name{Last: "Santos", First: "Jose", Suffix: "III"}},
		{"Jose Santos", viewmodel.Name{First: "Jose", Last: "Santos"}},
		{"Jose Rizal Mercado Sr.", viewmodel.Name{First: "Jose", Middle: "Rizal", Last: "Mercado", Suffix: "Sr."}},
		{"Juan Pablo Reyes Cruz", viewmodel.Name{First: "Juan Pablo", Middle: "Reyes", Last: "Cruz"}},
		{"  Ana   Lim  ", viewmodel.Name{First: "Ana", Last: "Lim"}},
		{"Jr", viewmodel.Name{Last: "Jr"}},
		{"Cruz, Vi", viewmodel.Name{Last: "Cruz", First: "Vi"}},
		{"Cruz, Juan ii", viewmodel.Name{Last: "Cruz", First: "Juan", Suffix: "ii"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, viewmodel.ParseName(tt.in))
		})
	}
}

func TestParseBirthdate(t *testing.T) {
	y, m, d := viewmodel.ParseBirthdate("2000-06-15")
	require.Equal(t, []int{2000, 6, 15}, []int{y, m, d})

	y, m, d = viewmodel.ParseBirthdate("not a date")
	assert.Equal(t, []int{0, 0, 0}, []int{y, m, d})

	assert.Equal(t, "2000-06-05", viewmodel.FormatBirthdate(2000, 6, 5))
	assert.Empty(t, viewmodel.FormatBirthdate(2000, 0, 5))
}

func TestToListView(t *testing.T) {
	p := testutil.NewProfile(primitive.NewObjectID(), "Santos", "Maria")
	p.ID = primitive.NewObjectID()
	p.MiddleName = "reyes"
	p.Suffix = "Jr."

	row := viewmodel.ToListView(p)
	assert.Equal(t, "Santos, Maria R. Jr.", row.DisplayName)
	assert.Equal(t, p.ID.Hex(), row.ID)
	assert.Empty(t, row.ReportID)
	assert.Equal(t, p.Age, row.Age)

	rows := viewmodel.ToListViews([]models.Profile{p, p})
	assert.Len(t, rows, 2)
	assert.NotNil(t, viewmodel.ToListViews(nil))
}

func TestHomeAddress(t *testing.T) {
	assert.Equal(t, "Zone 1, Calamba", viewmodel.HomeAddress("Zone 1", "", " Calamba ", ""))
	assert.Empty(t, viewmodel.HomeAddress())
}
