// internal/app/features/profiles/list.go
package profiles

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/system/normalize"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listResponse struct {
	Profiles []viewmodel.ListView `json:"profiles"`
	Cached   bool                 `json:"cached"`
}

// ServeList handles GET /profiles with exactly one of:
//   - report_id: profiles of one report
//   - barangay_id and q: last-name prefix search, at most 20 rows
//   - barangay_id: every profile of a locality, served from the list cache
//     while it is fresh
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if hex := q.Get("report_id"); hex != "" {
		reportID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			errorsfeature.BadRequest(w, "bad report_id")
			return
		}
		ps, err := h.Profiles.ListByReport(ctx, reportID)
		if err != nil {
			errorsfeature.Render(w, h.Log, "profiles.list_by_report", err)
			return
		}
		errorsfeature.WriteJSON(w, http.StatusOK, listResponse{Profiles: viewmodel.ToListViews(ps)})
		return
	}

	barangayID, err := primitive.ObjectIDFromHex(q.Get("barangay_id"))
	if err != nil {
		errorsfeature.BadRequest(w, "barangay_id or report_id is required")
		return
	}

	// Prefix search is case-sensitive against stored last names, so only
	// surrounding space is trimmed.
	if prefix := normalize.QueryParam(q.Get("q")); prefix != "" {
		ps, err := h.Profiles.SearchByNamePrefix(ctx, barangayID, prefix)
		if err != nil {
			errorsfeature.Render(w, h.Log, "profiles.search", err)
			return
		}
		errorsfeature.WriteJSON(w, http.StatusOK, listResponse{Profiles: viewmodel.ToListViews(ps)})
		return
	}

	if h.Lists == nil {
		ps, err := h.Profiles.ListByLocality(ctx, barangayID)
		if err != nil {
			errorsfeature.Render(w, h.Log, "profiles.list_by_locality", err)
			return
		}
		errorsfeature.WriteJSON(w, http.StatusOK, listResponse{Profiles: viewmodel.ToListViews(ps)})
		return
	}

	store := h.Lists.For(ctx, barangayID.Hex())
	ran, err := store.FetchIfStale(ctx, barangayID.Hex())
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.list_by_locality", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, listResponse{Profiles: store.State().Records, Cached: !ran})
}
