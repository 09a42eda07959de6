package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/harperchat/backend/internal/handler/chat"
	personaHandler "github.com/harperchat/backend/internal/handler/persona"
	streamHandler "github.com/harperchat/backend/internal/handler/stream"
	middlewarePkg "github.com/harperchat/backend/internal/middleware"
	personaModel "github.com/harperchat/backend/internal/model/persona"
	"github.com/harperchat/backend/internal/service/ai"
	"github.com/harperchat/backend/internal/service/memory"
	"github.com/harperchat/backend/internal/storage"
	"github.com/harperchat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil when
// generation is not configured; chat history and persona routes still work.
func NewRouter(store *storage.SqliteStore, memSvc *memory.Service, aiSvc *ai.Service, p personaModel.Persona) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	var responder chatHandler.Responder
	if aiSvc != nil {
		responder = aiSvc
	}

	chatH := chatHandler.New(store, responder, memSvc)
	personaH := personaHandler.New(p)

	var streamH *streamHandler.Handler
	if aiSvc != nil {
		streamH = streamHandler.New(aiSvc, store)
	}

	r.Route("/api", func(api chi.Router) {
		chatH.RegisterRoutes(api)
		personaH.RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if streamH == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				return
			}
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamH.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
