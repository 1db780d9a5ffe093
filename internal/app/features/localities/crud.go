// internal/app/features/localities/crud.go
package localities

import (
	"context"
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skprofiles/internal/app/system/normalize"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"github.com/dalemusser/skprofiles/internal/app/system/timeouts"
	"github.com/dalemusser/skprofiles/internal/domain/models"
	"go.uber.org/zap"
)

type createRequest struct {
	Name     string `json:"name"`
	Region   string `json:"region"`
	Province string `json:"province"`
	City     string `json:"city"`
	LogoURL  string `json:"logo_url"`
}

// ServeList handles GET /localities, optionally filtered by ?province=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		locs []models.Locality
		err  error
	)
	if province := normalize.QueryParam(r.URL.Query().Get("province")); province != "" {
		locs, err = h.Localities.ListByProvince(ctx, province)
	} else {
		locs, err = h.Localities.ListAll(ctx)
	}
	if err != nil {
		errorsfeature.Render(w, h.Log, "localities.list", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, locs)
}

// HandleCreate handles POST /localities.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	loc := models.Locality{
		Name:      clean(req.Name),
		Region:    clean(req.Region),
		Province:  clean(req.Province),
		City:      clean(req.City),
		LogoURL:   strings.TrimSpace(req.LogoURL),
		CreatedBy: auth.UserID(r),
	}
	if loc.Name == "" {
		errorsfeature.Render(w, h.Log, "localities.create", &storeerr.ValidationError{
			Fields: map[string]string{"name": "is required"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Localities.Create(ctx, loc)
	if err != nil {
		errorsfeature.Render(w, h.Log, "localities.create", err)
		return
	}
	h.Log.Info("locality created",
		zap.String("barangay_id", created.ID.Hex()),
		zap.String("name", created.Name))
	errorsfeature.WriteJSON(w, http.StatusCreated, created)
}

// ServeView handles GET /localities/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	loc, err := h.Localities.GetByID(ctx, id)
	if err != nil {
		errorsfeature.Render(w, h.Log, "localities.get", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, loc)
}

// HandleEdit handles PATCH /localities/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var p models.LocalityPatch
	if !decode(w, r, &p) {
		return
	}
	for _, f := range []*string{p.Name, p.Region, p.Province, p.City} {
		if f != nil {
			*f = clean(*f)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	loc, err := h.Localities.Update(ctx, id, p)
	if err != nil {
		errorsfeature.Render(w, h.Log, "localities.update", err)
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, loc)
}

// HandleDelete handles DELETE /localities/{id}. Reports and profiles of the
// locality are kept; the summary endpoint tells the caller what is left.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Localities.Delete(ctx, id); err != nil {
		errorsfeature.Render(w, h.Log, "localities.delete", err)
		return
	}
	h.Log.Info("locality deleted",
		zap.String("barangay_id", id.Hex()),
		zap.String("by", auth.UserID(r)))
	w.WriteHeader(http.StatusNoContent)
}

func clean(s string) string {
	return normalize.Name(htmlsanitize.PlainText(s))
}
