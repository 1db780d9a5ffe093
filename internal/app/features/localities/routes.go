// internal/app/features/localities/routes.go
package localities

import (
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Locality routes under the base path
// (typically "/localities" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/counts", h.ServeCounts)
		pr.Get("/{id}", h.ServeView)
		pr.Patch("/{id}", h.HandleEdit)
		pr.Get("/{id}/summary", h.ServeSummary)
	})

	// Removing a locality is an explicit admin action.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(auth.RoleAdmin))

		pr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
