package intake

// Field names a form input. The values match the detail view's JSON keys.
type Field string

const (
	LastName   Field = "last_name"
	FirstName  Field = "first_name"
	MiddleName Field = "middle_name"
	Suffix     Field = "suffix"

	BirthMonth Field = "birth_month"
	BirthDay   Field = "birth_day"
	BirthYear  Field = "birth_year"
	Age        Field = "age"

	Sex                 Field = "sex"
	CivilStatus         Field = "civil_status"
	YouthClassification Field = "youth_classification"
	YouthAgeGroup       Field = "youth_age_group"

	Email Field = "email"
	Phone Field = "phone"

	Region   Field = "region"
	Province Field = "province"
	City     Field = "city"
	Barangay Field = "barangay"
	Zone     Field = "zone"

	EducationalAttainment Field = "educational_attainment"
	WorkStatus            Field = "work_status"

	RegisteredSKVoter       Field = "registered_sk_voter"
	VotedLastSKElection     Field = "voted_last_sk_election"
	RegisteredNationalVoter Field = "registered_national_voter"
	AttendedKKAssembly      Field = "attended_kk_assembly"
	AssemblyFrequency       Field = "assembly_frequency"

	Signature Field = "signature"
)

// Fields lists every form input in form order.
var Fields = []Field{
	LastName, FirstName, MiddleName, Suffix,
	BirthMonth, BirthDay, BirthYear, Age,
	Sex, CivilStatus, YouthClassification, YouthAgeGroup,
	Email, Phone,
	Region, Province, City, Barangay, Zone,
	EducationalAttainment, WorkStatus,
	RegisteredSKVoter, VotedLastSKElection, RegisteredNationalVoter, AttendedKKAssembly, AssemblyFrequency,
	Signature,
}

// Draft holds the form's raw values as typed. Empty means not filled in.
type Draft struct {
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	Suffix     string `json:"suffix"`

	BirthMonth string `json:"birth_month"`
	BirthDay   string `json:"birth_day"`
	BirthYear  string `json:"birth_year"`
	Age        string `json:"age"`

	Sex                 string `json:"sex"`
	CivilStatus         string `json:"civil_status"`
	YouthClassification string `json:"youth_classification"`
	YouthAgeGroup       string `json:"youth_age_group"`

	Email string `json:"email"`
	Phone string `json:"phone"`

	Region   string `json:"region"`
	Province string `json:"province"`
	City     string `json:"city"`
	Barangay string `json:"barangay"`
	Zone     string `json:"zone"`

	EducationalAttainment string `json:"educational_attainment"`
	WorkStatus            string `json:"work_status"`

	RegisteredSKVoter       string `json:"registered_sk_voter"`
	VotedLastSKElection     string `json:"voted_last_sk_election"`
	RegisteredNationalVoter string `json:"registered_national_voter"`
	AttendedKKAssembly      string `json:"attended_kk_assembly"`
	AssemblyFrequency       string `json:"assembly_frequency"`

	Signature string `json:"signature"`
}

func (d *Draft) ref(f Field) *string {
	switch f {
	case LastName:
		return &d.LastName
	case FirstName:
		return &d.FirstName
	case MiddleName:
		return &d.MiddleName
	case Suffix:
		return &d.Suffix
	case BirthMonth:
		return &d.BirthMonth
	case BirthDay:
		return &d.BirthDay
	case BirthYear:
		return &d.BirthYear
	case Age:
		return &d.Age
	case Sex:
		return &d.Sex
	case CivilStatus:
		return &d.CivilStatus
	case YouthClassification:
		return &d.YouthClassification
	case YouthAgeGroup:
		return &d.YouthAgeGroup
	case Email:
		return &d.Email
	case Phone:
		return &d.Phone
	case Region:
		return &d.Region
	case Province:
		return &d.Province
	case City:
		return &d.City
	case Barangay:
		return &d.Barangay
	case Zone:
		return &d.Zone
	case EducationalAttainment:
		return &d.EducationalAttainment
	case WorkStatus:
		return &d.WorkStatus
	case RegisteredSKVoter:
		return &d.RegisteredSKVoter
	case VotedLastSKElection:
		return &d.VotedLastSKElection
	case RegisteredNationalVoter:
		return &d.RegisteredNationalVoter
	case AttendedKKAssembly:
		return &d.AttendedKKAssembly
	case AssemblyFrequency:
		return &d.AssemblyFrequency
	case Signature:
		return &d.Signature
	}
	return nil
}

// Get returns the raw value of f, or "" for an unknown field.
func (d Draft) Get(f Field) string {
	if p := d.ref(f); p != nil {
		return *p
	}
	return ""
}

// Set stores v as the raw value of f. It reports false for an unknown field.
func (d *Draft) Set(f Field, v string) bool {
	p := d.ref(f)
	if p == nil {
		return false
	}
	*p = v
	return true
}
