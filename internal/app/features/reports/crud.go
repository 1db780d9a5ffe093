// internal/app/features/reports/crud.go
package reports

import (
	"context"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Title      string `json:"title"`
	Quarter    string `json:"quarter"`
	Year       int    `json:"year"`
	BarangayID string `json:"barangay_id"`
}

// ServeList handles GET /reports?barangay_id=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	barangayID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("barangay_id"))
	if err != nil {
		errorsfeature.BadRequest(w, "barangay_id is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reports, err := h.Reports.ListByLocality(ctx, barangayID)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.list", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, reports)
}

// HandleCreate handles POST /reports. New reports start as drafts with no
// members.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}

	fields := map[string]string{}
	title := strings.TrimSpace(htmlsanitize.PlainText(req.Title))
	if title == "" {
		fields["title"] = "is required"
	}
	quarter, ok := models.Canonical(models.Quarters, req.Quarter)
	if !ok {
		fields["quarter"] = "must be one of Q1, Q2, Q3, Q4"
	}
	if req.Year < 1900 {
		fields["year"] = "is not a valid year"
	}
	barangayID, err := primitive.ObjectIDFromHex(req.BarangayID)
	if err != nil {
		fields["barangay_id"] = "is required"
	}
	if len(fields) > 0 {
		errorsfeature.Render(w, h.Log, "reports.create", &storeerr.ValidationError{Fields: fields})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Localities.GetByID(ctx, barangayID); err != nil {
		errorsfeature.Render(w, h.Log, "reports.create", err)
		return
	}
	rep, err := h.Reports.Create(ctx, models.Report{
		Title:      title,
		Quarter:    quarter,
		Year:       req.Year,
		BarangayID: barangayID,
		CreatedBy:  auth.UserID(r),
	})
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.create", err)
		return
	}
	h.Log.Info("report created",
		zap.String("report_id", rep.ID.Hex()),
		zap.String("barangay_id", barangayID.Hex()),
		zap.String("period", rep.Period()))
	errorsfeature.WriteJSON(w, http.StatusCreated, rep)
}

// ServeView handles GET /reports/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rep, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.get", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rep)
}

// HandleEdit handles PATCH /reports/{id}. Title, quarter and year are
// editable here; status changes go through /status so the lifecycle rule
// applies.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.ReportPatch
	if !decode(w, r, &p) {
		return
	}
	if p.Status != nil {
		errorsfeature.BadRequest(w, "use /status to change report status")
		return
	}
	if p.Title != nil {
		t := strings.TrimSpace(htmlsanitize.PlainText(*p.Title))
		p.Title = &t
	}
	if p.Quarter != nil {
		q, ok := models.Canonical(models.Quarters, string(*p.Quarter))
		if !ok {
			errorsfeature.Render(w, h.Log, "reports.update", &storeerr.ValidationError{
				Fields: map[string]string{"quarter": "must be one of Q1, Q2, Q3, Q4"},
			})
			return
		}
		p.Quarter = &q
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rep, err := h.Reports.Update(ctx, id, p)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.update", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, rep)
}

// HandleDelete handles DELETE /reports/{id}. Profiles that pointed at the
// report keep their report_id.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Reports.Delete(ctx, id); err != nil {
		errorsfeature.Render(w, h.Log, "reports.delete", err)
		return
	}
	h.Log.Info("report deleted",
		zap.String("report_id", id.Hex()),
		zap.String("by", auth.UserID(r)))
	w.WriteHeader(http.StatusNoContent)
}
