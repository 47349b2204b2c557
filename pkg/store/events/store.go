// Package events persists engagement events (email opens, link clicks,
// quotation views) recorded by the /track endpoints.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finboard/finboard/pkg/models/store"
	"github.com/google/uuid"
)

type Store interface {
	Add(ctx context.Context, event store.Event) error
}

type sqlStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS engagement_events (
	id         TEXT PRIMARY KEY,
	subject_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	recipient  TEXT NOT NULL DEFAULT 'unknown',
	sender_ip  TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

func NewStore(db *sql.DB) (Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create engagement_events table: %w", err)
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Add(ctx context.Context, event store.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Recipient == "" {
		event.Recipient = "unknown"
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO engagement_events (id, subject_id, event_type, recipient, sender_ip, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.SubjectID, event.EventType, event.Recipient,
		event.SenderIP, event.UserAgent, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert engagement event: %w", err)
	}
	return nil
}

