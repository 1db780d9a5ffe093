// internal/app/features/localities/summary.go
package localities

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/store/queries/countqueries"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
)

type summaryResponse struct {
	countqueries.Summary
	HasDependents bool `json:"has_dependents"`
}

// ServeSummary handles GET /localities/{id}/summary: aggregate counts for one
// locality. The locality must exist.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Localities.GetByID(ctx, id); err != nil {
		errorsfeature.Render(w, h.Log, "localities.summary", err)
		return
	}
	sum, err := countqueries.LocalitySummary(ctx, h.DB, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "localities.summary", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, summaryResponse{Summary: sum, HasDependents: sum.HasDependents()})
}

// ServeCounts handles GET /localities/counts: profile totals keyed by
// locality id.
func (h *Handler) ServeCounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	counts, err := countqueries.ProfilesPerLocality(ctx, h.DB)
	if err != nil {
		errorsfeature.Render(w, h.Log, "localities.counts", err)
		return
	}
	out := make(map[string]int64, len(counts))
	for id, n := range counts {
		out[id.Hex()] = n
	}
	errorsfeature.WriteJSON(w, http.StatusOK, out)
}
