package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	chatModel "github.com/harperchat/backend/internal/model/chat"
	"github.com/harperchat/backend/internal/service/memory"
	"github.com/harperchat/backend/pkg/utils"
)

// Store is the slice of the message store the chat API needs.
type Store interface {
	SaveMessage(ctx context.Context, sessionID, sender, content string) (int64, error)
	SessionMessages(ctx context.Context, sessionID string) ([]chatModel.Message, error)
	Sessions(ctx context.Context) ([]string, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// Responder relays a user turn and returns the generated reply.
type Responder interface {
	SendTurn(ctx context.Context, sessionID, userText string) (string, error)
}

// Handler serves the chat REST API.
type Handler struct {
	store  Store
	ai     Responder
	memory *memory.Service
}

// New creates the chat handler. ai may be nil when generation is not
// configured; chat posts then fail with 503 while history stays readable.
func New(store Store, ai Responder, mem *memory.Service) *Handler {
	return &Handler{store: store, ai: ai, memory: mem}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/{sessionID}", h.handleHistory)
	r.Delete("/chat/{sessionID}", h.handleClear)
	r.Get("/chat/{sessionID}/stats", h.handleStats)
	r.Get("/chat/{sessionID}/search", h.handleSearch)
	r.Get("/sessions", h.handleSessions)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	SessionID string `json:"sessionId"`
}

// handleChat runs one full turn: validate, persist the user message, relay
// to the AI service, persist the reply. A generation failure leaves the
// user's turn in the store and no bot turn, so retries re-send naturally.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	if h.ai == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai service unavailable")
		return
	}

	ctx := r.Context()

	if _, err := h.store.SaveMessage(ctx, sessionID, chatModel.SenderUser, payload.Message); err != nil {
		log.Printf("[chat] failed to save user message: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	reply, err := h.ai.SendTurn(ctx, sessionID, payload.Message)
	if err != nil {
		log.Printf("[chat] generation failed for session=%s: %v", sessionID, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	if _, err := h.store.SaveMessage(ctx, sessionID, chatModel.SenderBot, reply); err != nil {
		log.Printf("[chat] failed to save bot message: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to save response")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Message:   reply,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		SessionID: sessionID,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.store.SessionMessages(r.Context(), sessionID)
	if err != nil {
		log.Printf("[chat] failed to load history: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to get chat history")
		return
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.store.ClearSession(r.Context(), sessionID); err != nil {
		log.Printf("[chat] failed to clear session: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions(r.Context())
	if err != nil {
		log.Printf("[chat] failed to list sessions: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sessions)
}

// handleStats and handleSearch surface the memory service's best-effort
// queries; both degrade to empty results rather than failing.
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	utils.RespondJSON(w, http.StatusOK, h.memory.Stats(r.Context(), sessionID))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.RespondError(w, http.StatusBadRequest, "q query parameter is required")
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.memory.Search(r.Context(), sessionID, query))
}
