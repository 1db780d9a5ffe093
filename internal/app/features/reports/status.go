// internal/app/features/reports/status.go
package reports

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/policy/reportpolicy"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"go.uber.org/zap"
)

type statusRequest struct {
	Status models.ReportStatus `json:"status"`
}

// HandleStatus handles POST /reports/{id}/status. Non-admins may only move a
// report forward through draft, generated, submitted.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	cur, err := h.Reports.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.status", err)
		return
	}
	u, _ := auth.CurrentUser(r)
	if err := reportpolicy.CheckTransition(cur.Status, req.Status, u != nil && u.IsAdmin()); err != nil {
		errorsfeature.Render(w, h.Log, "reports.status", err)
		return
	}

	rep, err := h.Reports.SetStatus(ctx, id, req.Status)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.status", err)
		return
	}
	h.Log.Info("report status changed",
		zap.String("report_id", id.Hex()),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(rep.Status)),
		zap.Int("version", rep.Version))
	errorsfeature.WriteJSON(w, http.StatusOK, rep)
}

type reconcileResponse struct {
	Report models.Report `json:"report"`
	Drift  int           `json:"drift"`
}

// HandleReconcile handles POST /reports/{id}/reconcile: recompute
// member_count from the profiles that reference the report.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rep, drift, err := h.Reports.ReconcileMemberCount(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "reports.reconcile", err)
		return
	}
	if drift != 0 {
		h.Log.Warn("report member count drifted",
			zap.String("report_id", id.Hex()),
			zap.Int("drift", drift),
			zap.Int("member_count", rep.MemberCount))
	}
	errorsfeature.WriteJSON(w, http.StatusOK, reconcileResponse{Report: rep, Drift: drift})
}
