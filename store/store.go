// Package store provides persistence for chat sessions and messages.
package store

import (
	"context"
	"errors"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Store is the persistence interface for sessions and messages. Sessions
// own their messages: deleting a session deletes its messages.
type Store interface {
	// CreateSession creates a session titled from the first characters of
	// titleSeed.
	CreateSession(ctx context.Context, titleSeed string) (*domain.Session, error)

	// GetSession retrieves a session by ID. Returns (nil, nil) when the
	// session does not exist.
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// FindOrCreateSession returns the session with the given ID, or creates
	// a fresh one titled from titleSeed when id is empty or unknown. The
	// lookup and insert run in one transaction.
	FindOrCreateSession(ctx context.Context, id, titleSeed string) (*domain.Session, error)

	// DeleteSession removes a session and all its messages atomically.
	// Returns ErrNotFound when the session does not exist.
	DeleteSession(ctx context.Context, id string) error

	// CreateMessage appends a message to a session. Fails when the session
	// does not exist.
	CreateMessage(ctx context.Context, sessionID, role, content string) (*domain.Message, error)

	// GetMessages retrieves the messages of a session in ascending
	// created_at order, stable for ties.
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// ListSessionsWithAgentReply returns sessions that contain at least one
	// non-user message, newest first. A non-empty roleFilter restricts the
	// result to sessions containing a message with exactly that role.
	ListSessionsWithAgentReply(ctx context.Context, roleFilter string) ([]domain.Session, error)

	Close() error
}

// TitleLimit is the number of characters of the first message kept as the
// session title before the "..." suffix.
const TitleLimit = 50

// TitleFromSeed derives a session title from the first user message.
func TitleFromSeed(seed string) string {
	runes := []rune(seed)
	if len(runes) <= TitleLimit {
		return seed
	}
	return string(runes[:TitleLimit]) + "..."
}
