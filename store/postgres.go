package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/domain"
)

//go:embed migrations.sql
var migrations embed.FS

// PostgresConfig holds connection settings for PostgresStore.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store and applies the schema.
func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateSession creates a new session titled from titleSeed.
func (s *PostgresStore) CreateSession(ctx context.Context, titleSeed string) (*domain.Session, error) {
	session := &domain.Session{
		ID:        "sess_" + uuid.New().String()[:8],
		Title:     TitleFromSeed(titleSeed),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, title, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session by ID.
func (s *PostgresStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return scanSession(s.db.QueryRowContext(ctx,
		`SELECT id, external_id, title, created_at, updated_at FROM chat_sessions WHERE id = $1`, id))
}

// FindOrCreateSession gets an existing session or creates a new one inside
// a single transaction.
func (s *PostgresStore) FindOrCreateSession(ctx context.Context, id, titleSeed string) (*domain.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if id != "" {
		session, err := scanSession(tx.QueryRowContext(ctx,
			`SELECT id, external_id, title, created_at, updated_at FROM chat_sessions WHERE id = $1`, id))
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, tx.Commit()
		}
	}

	session := &domain.Session{
		ID:        "sess_" + uuid.New().String()[:8],
		Title:     TitleFromSeed(titleSeed),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, title, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt); err != nil {
		return nil, err
	}
	return session, tx.Commit()
}

// DeleteSession removes a session and, via the cascade, all its messages.
func (s *PostgresStore) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
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
func (s *PostgresStore) CreateMessage(ctx context.Context, sessionID, role, content string) (*domain.Message, error) {
	msg := &domain.Message{
		ID:        "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, chat_session_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessages retrieves messages for a session in conversation order.
func (s *PostgresStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_session_id, role, content, created_at FROM chat_messages
		 WHERE chat_session_id = $1 ORDER BY created_at ASC, id ASC`, sessionID)
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
// reply, newest first, optionally restricted to one role label.
func (s *PostgresStore) ListSessionsWithAgentReply(ctx context.Context, roleFilter string) ([]domain.Session, error) {
	query := `SELECT s.id, s.external_id, s.title, s.created_at, s.updated_at
		FROM chat_sessions s
		WHERE s.id IN (
			SELECT chat_session_id FROM chat_messages WHERE role != $1`
	args := []interface{}{domain.RoleUser}

	if roleFilter != "" {
		query += ` AND role = $2`
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
