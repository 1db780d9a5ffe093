package importsheet

import (
	"bytes"
	"fmt"

	"github.com/dalemusser/skprofiles/internal/app/intake"
	"github.com/xuri/excelize/v2"
)

const templateSheet = "Profiles"

// Template returns an XLSX workbook whose header row lists every column
// Parse understands, with one example row beneath it.
func Template() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(templateSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(templateSheet)
	if err != nil {
		return nil, fmt.Errorf("locate sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	header := make([]any, len(intake.Fields))
	for i, fld := range intake.Fields {
		header[i] = string(fld)
	}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(templateSheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	example := make([]any, len(intake.Fields))
	for i, fld := range intake.Fields {
		example[i] = exampleRow.Get(fld)
	}
	if err := f.SetSheetRow(templateSheet, "A2", &example); err != nil {
		return nil, fmt.Errorf("write example: %w", err)
	}
	if err := f.SetPanes(templateSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

var exampleRow = intake.Draft{
	LastName:                "Dela Cruz",
	FirstName:               "Juan",
	MiddleName:              "Santos",
	BirthMonth:              "6",
	BirthDay:                "15",
	BirthYear:               "2004",
	Sex:                     "Male",
	CivilStatus:             "Single",
	YouthClassification:     "In School Youth",
	Email:                   "NA",
	Phone:                   "09171234567",
	Region:                  "Region IV-A",
	Province:                "Laguna",
	City:                    "Calamba",
	Barangay:                "Uno",
	Zone:                    "Purok 1",
	EducationalAttainment:   "College Level",
	WorkStatus:              "Unemployed",
	RegisteredSKVoter:       "Yes",
	VotedLastSKElection:     "Yes",
	RegisteredNationalVoter: "No",
	AttendedKKAssembly:      "Yes",
	AssemblyFrequency:       "1-2 Times",
}
