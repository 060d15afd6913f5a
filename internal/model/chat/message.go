package chat

import "time"

// Message is one reconstructed logical message from a transcript.
// Author is kept verbatim; grouping happens on the normalized name.
type Message struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body"`
}
