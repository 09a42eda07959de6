package chat

import "time"

// Stats summarizes one session's stored history.
type Stats struct {
	TotalMessages    int        `json:"totalMessages"`
	UserMessages     int        `json:"userMessages"`
	BotMessages      int        `json:"botMessages"`
	FirstInteraction *time.Time `json:"firstInteraction"`
	LastInteraction  *time.Time `json:"lastInteraction"`
}
