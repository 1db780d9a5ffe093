// internal/app/features/profiles/handler.go
package profiles

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/cachestore"
	profilestore "github.com/dalemusser/skprofiles/internal/app/store/profiles"
	"github.com/dalemusser/skprofiles/internal/app/viewmodel"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Profiles.
//
// Lists holds one cache store per locality. Locality list reads go through it;
// every write made here is mirrored into it with Add, Update or Delete.
type Handler struct {
	Profiles *profilestore.Store
	Lists    *cachestore.Pool[viewmodel.ListView]
	Log      *zap.Logger

	// Now is the clock used for age derivation.
	Now func() time.Time
}

// NewHandler constructs a Profiles handler. lists may be nil, in which case
// every list read goes to the store.
func NewHandler(profiles *profilestore.Store, lists *cachestore.Pool[viewmodel.ListView], logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: profiles,
		Lists:    lists,
		Log:      logger,
		Now:      time.Now,
	}
}

// NewListPool builds the per-locality list cache fed by store.
func NewListPool(store *profilestore.Store, cfg cachestore.Config) *cachestore.Pool[viewmodel.ListView] {
	fetch := func(ctx context.Context, scope string) ([]viewmodel.ListView, error) {
		id, err := primitive.ObjectIDFromHex(scope)
		if err != nil {
			return nil, err
		}
		ps, err := store.ListByLocality(ctx, id)
		if err != nil {
			return nil, err
		}
		return viewmodel.ToListViews(ps), nil
	}
	pool := cachestore.NewPool("profiles", func(v viewmodel.ListView) string { return v.ID }, fetch, cfg)
	return pool.SortBy(viewmodel.ByName)
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		errorsfeature.BadRequest(w, "bad profile id")
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
