package store

import "time"

// Event is one recorded engagement event at the store edge.
type Event struct {
	ID        string
	SubjectID string
	EventType string
	Recipient string
	SenderIP  string
	UserAgent string
	CreatedAt time.Time
}
