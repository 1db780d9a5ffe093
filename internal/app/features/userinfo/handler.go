// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
)

// Handler reports who the current session belongs to.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type userInfo struct {
	SignedIn bool   `json:"signed_in"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ServeUserInfo handles GET /me. It never fails; a request without a session
// gets signed_in=false.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		errorsfeature.WriteJSON(w, http.StatusOK, userInfo{})
		return
	}
	errorsfeature.WriteJSON(w, http.StatusOK, userInfo{
		SignedIn: true,
		ID:       user.ID,
		Name:     user.Name,
		Role:     user.Role,
	})
}
