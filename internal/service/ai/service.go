package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/harperchat/backend/internal/config"
	"github.com/harperchat/backend/internal/model/chat"
	"github.com/harperchat/backend/internal/model/persona"
	"github.com/harperchat/backend/internal/service/memory"
)

// ErrGeneration wraps any failure from the external generation call.
var ErrGeneration = errors.New("ai generation failed")

// userLabel names the human side inside composed turns.
const userLabel = "User"

// Service is the conversation manager. It owns one conversation handle per
// session, created lazily on first use and seeded with the persona preamble.
// Continuity is stateful: after seeding, only a small wrapper around the raw
// user text is sent and the external conversation's own history carries the
// rest. Recent stored context is folded in only when a handle is freshly
// created, which restores continuity after a process restart.
type Service struct {
	opener       Opener
	memory       *memory.Service
	instructions string
	personaName  string

	requestTimeout time.Duration
	contextLimit   int
	handleLimit    int

	mu      sync.Mutex
	handles map[string]*handle
}

// handle is the process-local reference to one external conversation.
// lastUsed is guarded by Service.mu; conv sends are serialized by the
// handle's own mutex so concurrent turns for one session cannot interleave
// inside the SDK.
type handle struct {
	mu        sync.Mutex
	conv      Conversation
	fresh     bool
	createdAt time.Time
	lastUsed  time.Time
}

// NewService validates and formats the persona once, then wires the manager.
// mem may be nil; context enrichment is skipped without it.
func NewService(opener Opener, mem *memory.Service, p persona.Persona, cfg config.AIConfig) (*Service, error) {
	instructions, err := BuildInstructions(p)
	if err != nil {
		return nil, err
	}

	return &Service{
		opener:         opener,
		memory:         mem,
		instructions:   instructions,
		personaName:    p.Name,
		requestTimeout: cfg.RequestTimeout,
		contextLimit:   cfg.ContextLimit,
		handleLimit:    cfg.HandleLimit,
		handles:        make(map[string]*handle),
	}, nil
}

// Instructions exposes the formatted preamble, mainly for logging and tests.
func (s *Service) Instructions() string {
	return s.instructions
}

// SendTurn relays one user message through the session's conversation and
// returns the generated reply verbatim. There is no retry and no rollback:
// a failed call leaves the handle in place with whatever history the remote
// side recorded. Persisting both turns is the caller's job.
func (s *Service) SendTurn(ctx context.Context, sessionID, userText string) (string, error) {
	h, err := s.conversation(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	reply, err := h.conv.Send(ctx, s.composeTurn(ctx, h, sessionID, userText))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	log.Printf("[ai] generated response for session=%s length=%d", sessionID, len(reply))
	return reply, nil
}

// StreamTurn is SendTurn's streaming variant: chunks are delivered through
// onChunk as they arrive and the concatenated reply is returned at the end.
func (s *Service) StreamTurn(ctx context.Context, sessionID, userText string, onChunk func(string)) (string, error) {
	h, err := s.conversation(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	reply, err := h.conv.SendStream(ctx, s.composeTurn(ctx, h, sessionID, userText), onChunk)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	log.Printf("[ai] streamed response for session=%s length=%d", sessionID, len(reply))
	return reply, nil
}

// ActiveHandles reports how many sessions currently hold a handle.
func (s *Service) ActiveHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// conversation performs the atomic get-or-create for a session's handle.
// Creation happens under the registry lock, so two concurrent first turns
// for the same session can never seed two diverging external conversations.
// Open performs no network I/O (see GeminiOpener.Open), which keeps the
// critical section short. A creation failure is not cached; the next call
// retries from scratch.
func (s *Service) conversation(ctx context.Context, sessionID string) (*handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if h, ok := s.handles[sessionID]; ok {
		h.lastUsed = now
		return h, nil
	}

	conv, err := s.opener.Open(ctx, s.instructions)
	if err != nil {
		return nil, fmt.Errorf("failed to open conversation for session %s: %w", sessionID, err)
	}

	s.evictIfFull()

	h := &handle{conv: conv, fresh: true, createdAt: now, lastUsed: now}
	s.handles[sessionID] = h
	log.Printf("[ai] opened conversation for session=%s (active=%d)", sessionID, len(s.handles))
	return h, nil
}

// evictIfFull drops the least recently used handle once the registry is at
// capacity. The evicted session simply gets a fresh handle, with stored
// context folded back in, on its next message. Caller holds s.mu.
func (s *Service) evictIfFull() {
	if s.handleLimit <= 0 || len(s.handles) < s.handleLimit {
		return
	}

	var oldestID string
	var oldest time.Time
	for id, h := range s.handles {
		if oldestID == "" || h.lastUsed.Before(oldest) {
			oldestID = id
			oldest = h.lastUsed
		}
	}

	if oldestID != "" {
		delete(s.handles, oldestID)
		log.Printf("[ai] evicted idle conversation for session=%s", oldestID)
	}
}

// composeTurn builds the outbound text. For an established handle that is a
// small wrapper around the raw user line. A fresh handle additionally gets a
// recent-conversation block from the memory service so the new external
// conversation picks up where the stored history left off. Caller holds h.mu.
func (s *Service) composeTurn(ctx context.Context, h *handle, sessionID, userText string) string {
	var b strings.Builder

	if h.fresh {
		h.fresh = false
		if block := s.contextBlock(ctx, sessionID, userText); block != "" {
			b.WriteString(block)
			b.WriteString("\n\n")
		}
	}

	fmt.Fprintf(&b, "%s: %s\n\n%s:", userLabel, userText, s.personaName)
	return b.String()
}

// contextBlock renders recent stored turns. The current user message has
// already been persisted by the HTTP boundary before the turn reaches this
// service, so a trailing duplicate of it is trimmed.
func (s *Service) contextBlock(ctx context.Context, sessionID, userText string) string {
	if s.memory == nil {
		return ""
	}

	turns := s.memory.RecentContext(ctx, sessionID, s.contextLimit)
	if n := len(turns); n > 0 {
		last := turns[n-1]
		if last.Sender == chat.SenderUser && last.Content == userText {
			turns = turns[:n-1]
		}
	}
	if len(turns) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Recent conversation:")
	for _, msg := range turns {
		label := userLabel
		if msg.Sender == chat.SenderBot {
			label = s.personaName
		}
		fmt.Fprintf(&b, "\n%s: %s", label, msg.Content)
	}
	return b.String()
}
