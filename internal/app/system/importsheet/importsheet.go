// Package importsheet reads profile rows from an uploaded CSV or XLSX sheet.
//
// The first row is the header. Columns are matched to intake fields by name
// (case and spacing ignored, a few common aliases accepted); unknown columns
// are ignored. Every row goes through the intake engine. A sheet with any
// invalid row is rejected as a whole with the reasons for each bad row.
package importsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/skprofiles/internal/app/intake"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

const (
	MaxRows  = 20000
	MaxBytes = 5 << 20
)

var (
	ErrTooLarge    = errors.New("sheet exceeds 5 MB")
	ErrTooManyRows = fmt.Errorf("sheet exceeds %d rows", MaxRows)
	ErrNoHeader    = errors.New("sheet has no header row")
	ErrNoRows      = errors.New("sheet has no data rows")
	ErrFormat      = errors.New("unsupported sheet format; use .csv or .xlsx")
	ErrMalformed   = errors.New("sheet could not be read")
)

// RowError lists the problems of one data row. Row is the 1-based sheet row
// number, so the header is row 1.
type RowError struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// RowsError rejects a sheet because some rows are invalid.
type RowsError struct {
	Rows []RowError `json:"rows"`
}

func (e *RowsError) Error() string {
	return fmt.Sprintf("%d invalid row(s); first at row %d", len(e.Rows), e.Rows[0].Row)
}

// Format identifies a sheet encoding.
type Format int

const (
	CSV Format = iota + 1
	XLSX
)

// FormatOf picks the format from a file name.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	}
	return 0, ErrFormat
}

// Parse reads the sheet in r and returns one profile per data row, in sheet
// order. Ages are computed as of today.
func Parse(r io.Reader, format Format, today time.Time) ([]models.Profile, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxBytes {
		return nil, ErrTooLarge
	}

	var rows [][]string
	switch format {
	case CSV:
		rows, err = csvRows(data)
	case XLSX:
		rows, err = xlsxRows(data)
	default:
		return nil, ErrFormat
	}
	if err != nil {
		return nil, err
	}
	return Profiles(rows, today)
}

// Profiles converts header-led rows to profiles.
func Profiles(rows [][]string, today time.Time) ([]models.Profile, error) {
	rows = trimBlank(rows)
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	if len(rows) == 1 {
		return nil, ErrNoRows
	}
	if len(rows)-1 > MaxRows {
		return nil, ErrTooManyRows
	}

	cols := columns(rows[0])
	if len(cols) == 0 {
		return nil, ErrNoHeader
	}

	out := make([]models.Profile, 0, len(rows)-1)
	var bad []RowError
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		d := draft(cols, row)
		p, err := intake.Submit(d, today)
		if err != nil {
			verr, ok := storeerr.AsValidation(err)
			if !ok {
				return nil, err
			}
			bad = append(bad, RowError{Row: i + 2, Fields: verr.Fields})
			continue
		}
		out = append(out, p)
	}
	if len(bad) > 0 {
		return nil, &RowsError{Rows: bad}
	}
	return out, nil
}

// column binds a sheet column to a field. birthdate columns hold the whole
// date and fill the three parts.
type column struct {
	idx       int
	field     intake.Field
	birthdate bool
}

var aliases = map[string]intake.Field{
	"surname":          intake.LastName,
	"given_name":       intake.FirstName,
	"middle_initial":   intake.MiddleName,
	"gender":           intake.Sex,
	"purok":            intake.Zone,
	"sitio":            intake.Zone,
	"mobile":           intake.Phone,
	"contact_number":   intake.Phone,
	"email_address":    intake.Email,
	"municipality":     intake.City,
	"education":        intake.EducationalAttainment,
	"work":             intake.WorkStatus,
	"sk_voter":         intake.RegisteredSKVoter,
	"national_voter":   intake.RegisteredNationalVoter,
	"voted":            intake.VotedLastSKElection,
	"attended":         intake.AttendedKKAssembly,
	"times_attended":   intake.AssemblyFrequency,
	"kk_assembly":      intake.AttendedKKAssembly,
	"classification":   intake.YouthClassification,
	"civil":            intake.CivilStatus,
	"registered_voter": intake.RegisteredSKVoter,
}

func key(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("-", "_", "/", "_", ".", "").Replace(h)
	return strings.Join(strings.Fields(h), "_")
}

func columns(header []string) []column {
	known := make(map[string]intake.Field, len(intake.Fields))
	for _, f := range intake.Fields {
		known[string(f)] = f
	}

	var cols []column
	for i, h := range header {
		k := key(h)
		if k == "birthdate" || k == "date_of_birth" || k == "birthday" {
			cols = append(cols, column{idx: i, birthdate: true})
			continue
		}
		if f, ok := known[k]; ok {
			cols = append(cols, column{idx: i, field: f})
		} else if f, ok := aliases[k]; ok {
			cols = append(cols, column{idx: i, field: f})
		}
	}
	return cols
}

func draft(cols []column, row []string) intake.Draft {
	var d intake.Draft
	for _, c := range cols {
		if c.idx >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[c.idx])
		if c.birthdate {
			y, m, day := viewmodel.ParseBirthdate(v)
			d.BirthYear, d.BirthMonth, d.BirthDay = itoa(y), itoa(m), itoa(day)
			continue
		}
		d.Set(c.field, v)
	}
	return d
}

func itoa(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprint(n)
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// trimBlank drops leading blank rows so the first non-blank row is the
// header.
func trimBlank(rows [][]string) [][]string {
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	return rows
}

func csvRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rows = append(rows, rec)
		if len(rows) > MaxRows+1 {
			return nil, ErrTooManyRows
		}
	}
}

func xlsxRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return rows, nil
}
