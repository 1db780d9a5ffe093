// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Profile routes under the base path
// (typically "/profiles" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Post("/draft", h.HandleDraft)

		pr.Get("/{id}", h.ServeView)
		pr.Patch("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
