// internal/app/features/localities/handler.go
package localities

import (
	"encoding/json"
	"net/http"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	localitystore "github.com/dalemusser/skprofiles/internal/app/store/localities"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Localities.
type Handler struct {
	DB         *mongo.Database
	Localities *localitystore.Store
	Log        *zap.Logger
}

// NewHandler constructs a Localities handler bound to a DB and logger.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Localities: localitystore.New(db),
		Log:        logger,
	}
}

// idParam parses the {id} URL parameter. On failure it has already written
// a 400.
func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		errorsfeature.BadRequest(w, "bad locality id")
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
