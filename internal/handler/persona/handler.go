package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	personaModel "github.com/harperchat/backend/internal/model/persona"
	"github.com/harperchat/backend/pkg/utils"
)

// Card is the public view of the persona the front end renders. The full
// description, including the preamble source material, stays server-side.
type Card struct {
	Name      string                 `json:"name"`
	Role      string                 `json:"role"`
	Pronouns  string                 `json:"pronouns"`
	Band      string                 `json:"band"`
	Greetings personaModel.Greetings `json:"greetings"`
}

// Handler serves the persona card.
type Handler struct {
	card Card
}

// New builds the handler's card from the configured persona.
func New(p personaModel.Persona) *Handler {
	return &Handler{
		card: Card{
			Name:      p.Name,
			Role:      p.Role,
			Pronouns:  p.Pronouns,
			Band:      p.Band.Name,
			Greetings: p.Greetings,
		},
	}
}

// RegisterRoutes mounts the persona endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleGet)
}

func (h *Handler) handleGet(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.card)
}
