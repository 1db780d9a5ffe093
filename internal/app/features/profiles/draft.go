// internal/app/features/profiles/draft.go
package profiles

import (
	"net/http"

	errorsfeature "github.com/dalemusser/skprofiles/internal/app/features/errors"
	"github.com/dalemusser/skprofiles/internal/app/intake"
)

type draftRequest struct {
	Form  intake.Form  `json:"form"`
	Field intake.Field `json:"field"`
	Value string       `json:"value"`
}

type draftResponse struct {
	intake.Form
	ShowFrequency bool `json:"show_assembly_frequency"`
}

// HandleDraft handles POST /profiles/draft: the intake form posts each field
// change and gets back the draft with derived fields and inline errors
// updated. Nothing is stored.
func (h *Handler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !decode(w, r, &req) {
		return
	}
	form := intake.Apply(req.Form, req.Field, req.Value, h.Now())
	errorsfeature.WriteJSON(w, http.StatusOK, draftResponse{
		Form:          form,
		ShowFrequency: intake.Visible(form.Draft, intake.AssemblyFrequency),
	})
}
