package storage

import "time"

// Interaction is one recorded request/response pair.
type Interaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Task      string    `json:"task"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	CreatedAt time.Time `json:"created_at"`
}
