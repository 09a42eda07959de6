package chat

import "time"

// Sender values persisted alongside each turn.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one persisted conversation turn.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
