// ABOUTME: Mock AnswerStore implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory AnswerStore implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	answers map[string]*Answer // keyed by normalised question

	// Lookups counts GetAnswer calls, so tests can observe caching.
	Lookups int

	// PingErr, when set, is returned by Ping.
	PingErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		answers: make(map[string]*Answer),
	}
}

// GetAnswer retrieves an entry by question.
func (m *MockStore) GetAnswer(ctx context.Context, question string) (*Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Lookups++
	a, ok := m.answers[NormalizeQuestion(question)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// PutAnswer stores or replaces an entry.
func (m *MockStore) PutAnswer(ctx context.Context, answer *Answer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	question := NormalizeQuestion(answer.Question)
	if question == "" {
		return ErrEmptyQuestion
	}

	now := time.Now().UTC()
	if existing, ok := m.answers[question]; ok {
		answer.CreatedAt = existing.CreatedAt
	} else if answer.CreatedAt.IsZero() {
		answer.CreatedAt = now
	}
	answer.UpdatedAt = now
	answer.Question = question

	cp := *answer
	m.answers[question] = &cp
	return nil
}

// DeleteAnswer removes an entry.
func (m *MockStore) DeleteAnswer(ctx context.Context, question string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := NormalizeQuestion(question)
	if _, ok := m.answers[key]; !ok {
		return ErrNotFound
	}
	delete(m.answers, key)
	return nil
}

// ListAnswers returns all entries ordered by question.
func (m *MockStore) ListAnswers(ctx context.Context) ([]*Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	answers := make([]*Answer, 0, len(m.answers))
	for _, a := range m.answers {
		cp := *a
		answers = append(answers, &cp)
	}
	sort.Slice(answers, func(i, j int) bool {
		return answers[i].Question < answers[j].Question
	})
	return answers, nil
}

// Ping returns PingErr.
func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

var _ AnswerStore = (*MockStore)(nil)
