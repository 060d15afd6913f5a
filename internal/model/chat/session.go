package chat

import "time"

// Session describes an uploaded transcript held in memory.
type Session struct {
	ID            string    `json:"session_id"`
	FileName      string    `json:"file_name,omitempty"`
	TotalMessages int       `json:"total_messages"`
	Participants  int       `json:"participants"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	CreatedAt     time.Time `json:"created_at"`
}
