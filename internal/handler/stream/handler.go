package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	chatModel "github.com/harperchat/backend/internal/model/chat"
	"github.com/harperchat/backend/pkg/utils"
)

// Streamer relays a user turn and delivers reply chunks as they arrive.
type Streamer interface {
	StreamTurn(ctx context.Context, sessionID, userText string, onChunk func(string)) (string, error)
}

// Store persists the turns of a streamed exchange.
type Store interface {
	SaveMessage(ctx context.Context, sessionID, sender, content string) (int64, error)
}

// Handler streams AI replies over Server-Sent Events.
type Handler struct {
	ai    Streamer
	store Store
}

// New creates a stream handler.
func New(ai Streamer, store Store) *Handler {
	return &Handler{ai: ai, store: store}
}

// Response is one SSE frame.
type Response struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest runs one chat turn over an SSE connection: persist the
// user message, stream the reply chunk by chunk, persist the full reply.
// Errors after the stream opened are reported in-band as error frames.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	if _, err := h.store.SaveMessage(ctx, sessionID, chatModel.SenderUser, userMessage); err != nil {
		h.sendError(w, flusher, "failed to save message")
		return err
	}

	h.send(w, flusher, Response{Event: "start", SessionID: sessionID})

	reply, err := h.ai.StreamTurn(ctx, sessionID, userMessage, func(chunk string) {
		h.send(w, flusher, Response{Event: "chunk", Content: chunk})
	})
	if err != nil {
		h.sendError(w, flusher, "generation failed")
		return err
	}

	if _, err := h.store.SaveMessage(ctx, sessionID, chatModel.SenderBot, reply); err != nil {
		log.Printf("[sse] failed to save streamed reply: %v", err)
		h.sendError(w, flusher, "failed to save response")
		return err
	}

	h.send(w, flusher, Response{Event: "done", SessionID: sessionID, Finished: true})
	return nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, resp Response) {
	utils.SendSSEChunk(w, flusher, resp)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.send(w, flusher, Response{Event: "error", Error: message})
}
