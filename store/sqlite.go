package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys so cascade deletes work
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			id TEXT PRIMARY KEY,
			external_id TEXT,
			title TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			chat_session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (chat_session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(chat_session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session titled from titleSeed.
func (s *SQLiteStore) CreateSession(ctx context.Context, titleSeed string) (*domain.Session, error) {
	session := &domain.Session{
		ID:        "sess_" + uuid.New().String()[:8],
		Title:     TitleFromSeed(titleSeed),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return scanSession(s.db.QueryRowContext(ctx,
		`SELECT id, external_id, title, created_at, updated_at FROM chat_sessions WHERE id = ?`, id))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var externalID, title sql.NullString
	err := row.Scan(&session.ID, &externalID, &title, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if externalID.Valid {
		session.ExternalID = externalID.String
	}
	if title.Valid {
		session.Title = title.String
	}
	return &session, nil
}

// FindOrCreateSession gets an existing session or creates a new one. The
// lookup and insert share a transaction so two racing first-sends cannot
// both insert under the same ID.
func (s *SQLiteStore) FindOrCreateSession(ctx context.Context, id, titleSeed string) (*domain.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if id != "" {
		session, err := scanSession(tx.QueryRowContext(ctx,
			`SELECT id, external_id, title, created_at, updated_at FROM chat_sessions WHERE id = ?`, id))
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, tx.Commit()
		}
	}

	// Unknown or absent ID starts a fresh session, not an error.
	session := &domain.Session{
		ID:        "sess_" + uuid.New().String()[:8],
		Title:     TitleFromSeed(titleSeed),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt); err != nil {
		return nil, err
	}
	return session, tx.Commit()
}

// DeleteSession removes a session and, via the cascade, all its messages.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMessage appends a message to a session.
func (s *SQLiteStore) CreateMessage(ctx context.Context, sessionID, role, content string) (*domain.Message, error) {
	msg := &domain.Message{
		ID:        "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, chat_session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessages retrieves messages for a session in conversation order.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_session_id, role, content, created_at FROM chat_messages
		 WHERE chat_session_id = ? ORDER BY created_at ASC, rowid ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// ListSessionsWithAgentReply lists sessions that already have an agent
// reply, newest first. The sidebar filters by workflow through the role
// label, so the workflow itself is never persisted on the session.
func (s *SQLiteStore) ListSessionsWithAgentReply(ctx context.Context, roleFilter string) ([]domain.Session, error) {
	query := `SELECT s.id, s.external_id, s.title, s.created_at, s.updated_at
		FROM chat_sessions s
		WHERE s.id IN (
			SELECT chat_session_id FROM chat_messages WHERE role != ?`
	args := []interface{}{domain.RoleUser}

	if roleFilter != "" {
		query += ` AND role = ?`
		args = append(args, roleFilter)
	}
	query += ` GROUP BY chat_session_id)
		ORDER BY s.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}
