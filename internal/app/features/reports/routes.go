// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/skprofiles/internal/app/system/auth"
	"github.com/dalemusser/skprofiles/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all Report routes under the base path
// (typically "/reports" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/import-template.xlsx", h.ServeTemplate)

		pr.Get("/{id}", h.ServeView)
		pr.Patch("/{id}", h.HandleEdit)
		pr.Delete("/{id}", h.HandleDelete)

		pr.Post("/{id}/status", h.HandleStatus)
		pr.Post("/{id}/reconcile", h.HandleReconcile)
		pr.With(ratelimit.Middleware(h.ImportLimiter, auth.UserID)).Post("/{id}/import", h.HandleImport)
		pr.Get("/{id}/export.csv", h.ServeExportCSV)
	})

	return r
}
