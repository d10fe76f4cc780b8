// ABOUTME: Store interface and data types for the chatbot knowledge base
// ABOUTME: Defines the Answer struct and the AnswerStore interface for database operations

package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrEmptyQuestion is returned when an answer is stored without a question
var ErrEmptyQuestion = errors.New("question must not be empty")

// Answer is one knowledge-base entry: a canned reply for a normalised question.
type Answer struct {
	Question  string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnswerStore defines the knowledge-base operations used by the chatbot and
// the admin routes. Questions are always stored and looked up normalised.
type AnswerStore interface {
	// GetAnswer returns the entry for question, or ErrNotFound.
	GetAnswer(ctx context.Context, question string) (*Answer, error)

	// PutAnswer creates or replaces the entry for answer.Question.
	PutAnswer(ctx context.Context, answer *Answer) error

	// DeleteAnswer removes the entry for question, or returns ErrNotFound.
	DeleteAnswer(ctx context.Context, question string) error

	// ListAnswers returns every entry ordered by question.
	ListAnswers(ctx context.Context) ([]*Answer, error)

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store
	Close() error
}

// NormalizeQuestion lower-cases and trims a question so that lookups are
// insensitive to case and surrounding whitespace.
func NormalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
