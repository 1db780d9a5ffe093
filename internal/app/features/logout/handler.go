// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// HandleLogout handles POST /logout. The cookie is expired even when the
// request carried no session.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if id := auth.UserID(r); id != "" {
		h.Log.Info("signed out", zap.String("user_id", id))
	}
	w.WriteHeader(http.StatusNoContent)
}
