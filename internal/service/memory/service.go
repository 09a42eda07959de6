// Package memory gives the conversation layer best-effort access to stored
// history. Every lookup here is an enrichment: failures are logged and
// absorbed (empty slice or nil result) so a broken read path can never fail
// a chat turn. Write-path errors are not handled here and keep propagating.
package memory

import (
	"context"
	"log"

	"github.com/harperchat/backend/internal/model/chat"
)

// DefaultContextLimit caps how many turns RecentContext returns when the
// caller does not override it.
const DefaultContextLimit = 10

// searchLimit caps substring search results.
const searchLimit = 5

// Reader is the read-only slice of the message store this service needs.
type Reader interface {
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]chat.Message, error)
	SearchMessages(ctx context.Context, sessionID, query string, limit int) ([]chat.Message, error)
	SessionStats(ctx context.Context, sessionID string) (*chat.Stats, error)
}

// Service answers history questions about a session.
type Service struct {
	store Reader
}

// NewService wraps the given store reader.
func NewService(store Reader) *Service {
	return &Service{store: store}
}

// RecentContext returns up to limit recent turns in chronological order
// (oldest first). The underlying query fetches newest-first and is reversed
// here. Returns an empty slice on any failure.
func (s *Service) RecentContext(ctx context.Context, sessionID string, limit int) []chat.Message {
	if limit <= 0 {
		limit = DefaultContextLimit
	}

	messages, err := s.store.RecentMessages(ctx, sessionID, limit)
	if err != nil {
		log.Printf("[memory] error retrieving context: %v", err)
		return []chat.Message{}
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages
}

// Search finds past turns containing the query substring, newest first,
// capped at a small fixed count. Returns an empty slice on any failure.
func (s *Service) Search(ctx context.Context, sessionID, query string) []chat.Message {
	messages, err := s.store.SearchMessages(ctx, sessionID, query, searchLimit)
	if err != nil {
		log.Printf("[memory] error searching history: %v", err)
		return []chat.Message{}
	}
	return messages
}

// Stats returns aggregate counts for a session, or nil on failure.
func (s *Service) Stats(ctx context.Context, sessionID string) *chat.Stats {
	stats, err := s.store.SessionStats(ctx, sessionID)
	if err != nil {
		log.Printf("[memory] error computing stats: %v", err)
		return nil
	}
	return stats
}
