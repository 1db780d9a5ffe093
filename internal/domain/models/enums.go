// internal/domain/models/enums.go
package models

import (
	"strconv"
	"strings"
)

// ReportStatus is the lifecycle state of a report.
// The intended progression is draft → generated → submitted.
type ReportStatus string

const (
	StatusDraft     ReportStatus = "draft"
	StatusGenerated ReportStatus = "generated"
	StatusSubmitted ReportStatus = "submitted"
)

// ReportStatuses lists statuses in lifecycle order.
var ReportStatuses = []ReportStatus{StatusDraft, StatusGenerated, StatusSubmitted}

func (s ReportStatus) Valid() bool { return rank(ReportStatuses, s) >= 0 }

// Rank returns the position of s in the lifecycle, or -1 when unknown.
func (s ReportStatus) Rank() int { return rank(ReportStatuses, s) }

// Quarter is the period tag of a report.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

var Quarters = []Quarter{Q1, Q2, Q3, Q4}

func (q Quarter) Valid() bool { return rank(Quarters, q) >= 0 }

// Sex as recorded on the intake form.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

var Sexes = []Sex{SexMale, SexFemale}

func (s Sex) Valid() bool { return rank(Sexes, s) >= 0 }

type CivilStatus string

const (
	CivilSingle    CivilStatus = "Single"
	CivilMarried   CivilStatus = "Married"
	CivilWidowed   CivilStatus = "Widowed"
	CivilDivorced  CivilStatus = "Divorced"
	CivilSeparated CivilStatus = "Separated"
	CivilAnnulled  CivilStatus = "Annulled"
	CivilLiveIn    CivilStatus = "Live-in"
	CivilUnknown   CivilStatus = "Unknown"
)

var CivilStatuses = []CivilStatus{
	CivilSingle, CivilMarried, CivilWidowed, CivilDivorced,
	CivilSeparated, CivilAnnulled, CivilLiveIn, CivilUnknown,
}

func (c CivilStatus) Valid() bool { return rank(CivilStatuses, c) >= 0 }

type YouthClassification string

const (
	InSchoolYouth      YouthClassification = "In School Youth"
	OutOfSchoolYouth   YouthClassification = "Out of School Youth"
	WorkingYouth       YouthClassification = "Working Youth"
	YouthSpecificNeeds YouthClassification = "Youth with Specific Needs"
)

var YouthClassifications = []YouthClassification{
	InSchoolYouth, OutOfSchoolYouth, WorkingYouth, YouthSpecificNeeds,
}

func (y YouthClassification) Valid() bool { return rank(YouthClassifications, y) >= 0 }

// YouthAgeGroup buckets profiles by age.
type YouthAgeGroup string

const (
	ChildYouth YouthAgeGroup = "Child Youth (15-17 yrs old)"
	CoreYouth  YouthAgeGroup = "Core Youth (18-24 yrs old)"
	YoungAdult YouthAgeGroup = "Young Adult (25-30 yrs old)"
)

var YouthAgeGroups = []YouthAgeGroup{ChildYouth, CoreYouth, YoungAdult}

func (g YouthAgeGroup) Valid() bool { return rank(YouthAgeGroups, g) >= 0 }

// AgeGroupFor returns the age group that contains age, or "" when age is
// outside 15–30.
func AgeGroupFor(age int) YouthAgeGroup {
	switch {
	case age >= 15 && age <= 17:
		return ChildYouth
	case age >= 18 && age <= 24:
		return CoreYouth
	case age >= 25 && age <= 30:
		return YoungAdult
	}
	return ""
}

type EducationalAttainment string

var EducationalAttainments = []EducationalAttainment{
	"Elementary Level", "Elementary Grad",
	"High School Level", "High School Grad",
	"Vocational Grad",
	"College Level", "College Grad",
	"Masters Level", "Masters Grad",
	"Doctorate Level", "Doctorate Graduate",
}

func (e EducationalAttainment) Valid() bool { return rank(EducationalAttainments, e) >= 0 }

type WorkStatus string

var WorkStatuses = []WorkStatus{
	"Employed", "Unemployed", "Self-Employed",
	"Currently looking for a Job", "Not Interested Looking for a Job",
}

func (w WorkStatus) Valid() bool { return rank(WorkStatuses, w) >= 0 }

// Canonical returns the member of vals equal to s ignoring case and
// surrounding space. ok is false when nothing matches.
func Canonical[T ~string](vals []T, s string) (v T, ok bool) {
	s = strings.TrimSpace(s)
	for _, v := range vals {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

func rank[T ~string](vals []T, v T) int {
	for i, x := range vals {
		if x == v {
			return i
		}
	}
	return -1
}

func itoa(n int) string { return strconv.Itoa(n) }
