// ABOUTME: SQLite implementation of the AnswerStore interface using modernc.org/sqlite
// ABOUTME: Provides knowledge-base persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the AnswerStore interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS answers (
			question   TEXT PRIMARY KEY,
			answer     TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetAnswer retrieves the knowledge-base entry for a question.
func (s *SQLiteStore) GetAnswer(ctx context.Context, question string) (*Answer, error) {
	query := `
		SELECT question, answer, created_at, updated_at
		FROM answers
		WHERE question = ?
	`

	row := s.db.QueryRowContext(ctx, query, NormalizeQuestion(question))
	a, err := scanAnswer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying answer: %w", err)
	}
	return a, nil
}

// PutAnswer inserts an entry or replaces the answer of an existing one.
// CreatedAt of an existing entry is preserved.
func (s *SQLiteStore) PutAnswer(ctx context.Context, answer *Answer) error {
	question := NormalizeQuestion(answer.Question)
	if question == "" {
		return ErrEmptyQuestion
	}

	now := time.Now().UTC()
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = now
	}
	answer.UpdatedAt = now
	answer.Question = question

	query := `
		INSERT INTO answers (question, answer, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(question) DO UPDATE SET
			answer = excluded.answer,
			updated_at = excluded.updated_at
		RETURNING created_at
	`

	var createdAt string
	err := s.db.QueryRowContext(ctx, query,
		question,
		answer.Answer,
		answer.CreatedAt.Format(time.RFC3339Nano),
		answer.UpdatedAt.Format(time.RFC3339Nano),
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("upserting answer: %w", err)
	}

	answer.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	return nil
}

// DeleteAnswer removes the entry for a question.
func (s *SQLiteStore) DeleteAnswer(ctx context.Context, question string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE question = ?`, NormalizeQuestion(question))
	if err != nil {
		return fmt.Errorf("deleting answer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAnswers returns every entry ordered by question.
func (s *SQLiteStore) ListAnswers(ctx context.Context) ([]*Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, created_at, updated_at
		FROM answers
		ORDER BY question ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying answers: %w", err)
	}
	defer rows.Close()

	var answers []*Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating answers: %w", err)
	}
	return answers, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row rowScanner) (*Answer, error) {
	var a Answer
	var createdAt, updatedAt string
	if err := row.Scan(&a.Question, &a.Answer, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	a.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &a, nil
}

// Compile-time interface check
var _ AnswerStore = (*SQLiteStore)(nil)
