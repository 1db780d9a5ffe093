// internal/app/features/reports/export.go
package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"go.uber.org/zap"
)

var exportHeader = []string{
	"Last Name", "First Name", "Middle Name", "Suffix",
	"Birthdate", "Age", "Sex", "Civil Status",
	"Youth Classification", "Youth Age Group",
	"Email", "Phone", "Home Address",
	"Educational Attainment", "Work Status",
	"SK Voter", "Voted Last SK Election", "Registered National Voter",
	"Attended KK Assembly", "Assembly Frequency",
}

// ServeExportCSV handles GET /reports/{id}/export.csv and streams the
// report's profiles in list order.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rep, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.export", err)
		return
	}
	profiles, err := h.Profiles.ListByReport(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.export", err)
		return
	}

	filename := fmt.Sprintf("profiles-%s.csv", strings.ReplaceAll(rep.Period(), " ", "-"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// UTF-8 BOM for Excel
	_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	_ = cw.Write(exportHeader)
	for _, p := range profiles {
		v := viewmodel.ToDetailView(p)
		if err := cw.Write([]string{
			v.LastName, v.FirstName, v.MiddleName, v.Suffix,
			v.Birthdate, strconv.Itoa(v.Age), v.Sex, v.CivilStatus,
			v.YouthClassification, v.YouthAgeGroup,
			v.Email, v.Phone, v.HomeAddress,
			v.EducationalAttainment, v.WorkStatus,
			yesNo(v.RegisteredSKVoter), yesNo(v.VotedLastSKElection), yesNo(v.RegisteredNationalVoter),
			yesNo(v.AttendedKKAssembly), v.AssemblyFrequency,
		}); err != nil {
			h.Log.Warn("csv export write failed", zap.String("report_id", id.Hex()), zap.Error(err))
			return
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
