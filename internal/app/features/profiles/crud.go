// internal/app/features/profiles/crud.go
package profiles

import (
	"context"
	"net/http"

	"github.com/dalemusser/skprofiles/internal/app/cachestore"
	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/intake"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate handles POST /profiles. The body is a detail view; it goes
// through intake before anything is stored. A report_id links the profile to
// a report and bumps that report's member count in the same transaction.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var v viewmodel.DetailView
	if !decode(w, r, &v) {
		return
	}
	barangayID, err := primitive.ObjectIDFromHex(v.BarangayID)
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.create", &storeerr.ValidationError{
			Fields: map[string]string{"barangay_id": "is required"},
		})
		return
	}
	var reportID *primitive.ObjectID
	if v.ReportID != "" {
		id, err := primitive.ObjectIDFromHex(v.ReportID)
		if err != nil {
			errorsfeature.BadRequest(w, "bad report_id")
			return
		}
		reportID = &id
	}

	p, err := intake.Submit(intake.FromDetailView(v), h.Now())
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.create", err)
		return
	}
	p.BarangayID = barangayID
	p.ReportID = reportID
	p.CreatedBy = auth.UserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Profiles.Create(ctx, p)
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.create", err)
		return
	}
	h.Log.Info("profile created",
		zap.String("profile_id", created.ID.Hex()),
		zap.String("barangay_id", barangayID.Hex()),
		zap.String("report_id", hexOf(reportID)))

	if s, ok := h.lists(barangayID); ok {
		s.Add(ctx, viewmodel.ToListView(created))
	}
	errorsfeature.WriteJSON(w, http.StatusCreated, viewmodel.ToDetailView(created))
}

// ServeView handles GET /profiles/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.get", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, viewmodel.ToDetailView(p))
}

// HandleEdit handles PATCH /profiles/{id}. The body maps intake field names
// to new values:
//
//	{ "birth_year": "2001", "attended_kk_assembly": "No" }
//
// Changes are applied to the stored profile's draft in form order, so a
// birth date change recomputes age and age group and a "No" for assembly
// attendance clears the frequency. Only the submitted fields and the ones
// they derive are written. Report and locality links never change.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var changes map[intake.Field]string
	if !decode(w, r, &changes) {
		return
	}
	if bad := unknownFields(changes); len(bad) > 0 {
		errorsfeature.Render(w, h.Log, "profiles.update", &storeerr.ValidationError{Fields: bad})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cur, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.update", err)
		return
	}

	patch, err := intake.Edit(cur, changes, h.Now())
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.update", err)
		return
	}

	updated, err := h.Profiles.Update(ctx, id, patch)
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.update", err)
		return
	}
	if s, ok := h.lists(updated.BarangayID); ok {
		s.Update(ctx, id.Hex(), viewmodel.ToListView(updated))
	}
	errorsfeature.WriteJSON(w, http.StatusOK, viewmodel.ToDetailView(updated))
}

// HandleDelete handles DELETE /profiles/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Read first so the cache entry of the right locality can be dropped.
	cur, err := h.Profiles.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "profiles.delete", err)
		return
	}
	if err := h.Profiles.Delete(ctx, id); err != nil {
		errorsfeature.Render(w, h.Log, "profiles.delete", err)
		return
	}
	h.Log.Info("profile deleted",
		zap.String("profile_id", id.Hex()),
		zap.String("report_id", hexOf(cur.ReportID)),
		zap.String("by", auth.UserID(r)))

	if s, ok := h.lists(cur.BarangayID); ok {
		s.Delete(ctx, id.Hex())
	}
	w.WriteHeader(http.StatusNoContent)
}

func unknownFields(changes map[intake.Field]string) map[string]string {
	known := make(map[intake.Field]bool, len(intake.Fields))
	for _, f := range intake.Fields {
		known[f] = true
	}
	bad := map[string]string{}
	for f := range changes {
		if !known[f] {
			bad[string(f)] = "is not an editable field"
		}
	}
	return bad
}

func hexOf(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

// lists returns the cache store of a locality if one has been built. Stores
// are only built by list reads, so writes never create one.
func (h *Handler) lists(barangayID primitive.ObjectID) (*cachestore.Store[viewmodel.ListView], bool) {
	if h.Lists == nil {
		return nil, false
	}
	return h.Lists.Lookup(barangayID.Hex())
}
