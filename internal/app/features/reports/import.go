// internal/app/features/reports/import.go
package reports

import (
	"context"
	"net/http"
	"strconv"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	profilestore "github.com/dalemusser/skprofiles/internal/app/store/profiles"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/importsheet"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// multipart overhead allowed on top of the sheet itself
const formSlack = 1 << 20

type importResponse struct {
	profilestore.ImportResult
	Imported int    `json:"imported"`
	Complete bool   `json:"complete"`
	Error    string `json:"error,omitempty"`
}

// HandleImport handles POST /reports/{id}/import with a multipart "file"
// field holding a .csv or .xlsx sheet. Every row must pass intake; one bad
// row rejects the whole sheet before anything is written.
//
// The report's member_count is set to the number of imported profiles, not
// incremented.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, importsheet.MaxBytes+formSlack)
	if err := r.ParseMultipartForm(importsheet.MaxBytes); err != nil {
		errorsfeature.Render(w, h.Log, "reports.import", importsheet.ErrTooLarge)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		errorsfeature.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	format, err := importsheet.FormatOf(header.Filename)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.import", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rep, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.import", err)
		return
	}

	profiles, err := importsheet.Parse(file, format, h.Now())
	if err != nil {
		h.Log.Info("import sheet rejected",
			zap.String("report_id", id.Hex()),
			zap.String("file", header.Filename),
			zap.Error(err))
		errorsfeature.Render(w, h.Log, "reports.import", err)
		return
	}
	by := auth.UserID(r)
	for i := range profiles {
		profiles[i].CreatedBy = by
	}

	res, err := h.Profiles.BulkImport(ctx, rep.ID, rep.BarangayID, profiles)
	h.invalidate(rep.BarangayID)
	if err != nil && (storeerr.IsNotFound(err) || res.Chunks == 0) {
		errorsfeature.Render(w, h.Log, "reports.import", err)
		return
	}

	body := importResponse{ImportResult: res, Imported: res.Imported(), Complete: res.Complete()}
	status := http.StatusCreated
	if err != nil {
		// Earlier chunks are committed; tell the caller how far the import got.
		body.Error = "import stopped at chunk " + strconv.Itoa(res.FailedChunk)
		status = http.StatusInternalServerError
	}
	errorsfeature.WriteJSON(w, status, body)
}

// ServeTemplate handles GET /reports/import-template.xlsx.
func (h *Handler) ServeTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := importsheet.Template()
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.import_template", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="profile-import-template.xlsx"`)
	_, _ = w.Write(data)
}
