// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/skprofiles/internal/app/policy/reportpolicy"
	"github.com/dalemusser/skprofiles/internal/app/system/importsheet"
	"github.com/dalemusser/skprofiles/internal/app/system/storeerr"
	"go.uber.org/zap"
)

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// BadRequest answers 400 with msg.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// Render maps err onto a status code and JSON body:
//   - not found → 404
//   - validation or sheet row errors → 422 with per-field reasons
//   - refused status change → 409
//   - sheet limits or malformed sheets → 400 / 413
//   - anything else → 500, logged with op
//
// Backend error text is never sent to the client.
func Render(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	if storeerr.IsNotFound(err) {
		WriteJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	if ve, ok := storeerr.AsValidation(err); ok {
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: ve.Fields})
		return
	}
	var rows *importsheet.RowsError
	if stderrors.As(err, &rows) {
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Rows: rows.Rows})
		return
	}
	var te *reportpolicy.TransitionError
	if stderrors.As(err, &te) {
		WriteJSON(w, http.StatusConflict, errorBody{Error: te.Error()})
		return
	}
	switch {
	case stderrors.Is(err, reportpolicy.ErrUnknownStatus):
		BadRequest(w, err.Error())
		return
	case stderrors.Is(err, importsheet.ErrTooLarge), stderrors.Is(err, importsheet.ErrTooManyRows):
		WriteJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error()})
		return
	case stderrors.Is(err, importsheet.ErrNoHeader),
		stderrors.Is(err, importsheet.ErrNoRows),
		stderrors.Is(err, importsheet.ErrFormat),
		stderrors.Is(err, importsheet.ErrMalformed):
		BadRequest(w, err.Error())
		return
	}

	log.Error(op+" failed", zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}
