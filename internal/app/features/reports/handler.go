// internal/app/features/reports/handler.go
package reports

import (
	"encoding/json"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/cachestore"
	localitystore "github.com/dalemusser/skprofiles/internal/app/store/localities"
	profilestore "github.com/dalemusser/skprofiles/internal/app/store/profiles"
	reportstore "github.com/dalemusser/skprofiles/internal/app/store/reports"
	"github.com/dalemusser/skprofiles/internal/app/system/ratelimit"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the report endpoints: CRUD, status changes, counter
// reconciliation, sheet import and CSV export.
//
// Stores are built once at startup in bootstrap and shared with the profiles
// feature so both see the same metrics and chunk size.
type Handler struct {
	Reports    *reportstore.Store
	Profiles   *profilestore.Store
	Localities *localitystore.Store
	Lists      *cachestore.Pool[viewmodel.ListView]
	Log        *zap.Logger

	// ImportLimiter throttles sheet imports per user. Nil disables it.
	ImportLimiter *ratelimit.Limiter

	// Now is the clock used for intake age checks during import.
	Now func() time.Time
}

// NewHandler constructs a reports Handler. lists may be nil.
func NewHandler(reports *reportstore.Store, profiles *profilestore.Store, localities *localitystore.Store, lists *cachestore.Pool[viewmodel.ListView], logger *zap.Logger) *Handler {
	return &Handler{
		Reports:    reports,
		Profiles:   profiles,
		Localities: localities,
		Lists:      lists,
		Log:        logger,
		Now:        time.Now,
	}
}

// invalidate drops the cached profile list of a locality after a write that
// did not go through the profiles feature.
func (h *Handler) invalidate(barangayID primitive.ObjectID) {
	if h.Lists == nil {
		return
	}
	if s, ok := h.Lists.Lookup(barangayID.Hex()); ok {
		s.Invalidate()
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		errorsfeature.BadRequest(w, "bad report id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errorsfeature.BadRequest(w, "malformed JSON body")
		return false
	}
	return true
}
