// ABOUTME: Knowledge-base admin calls against /api/chat/answers
// ABOUTME: Requires Client.Token to carry a JWT minted from the gateway's secret

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const answersPath = "/api/chat/answers"

// Answer is one knowledge-base entry.
type Answer struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListAnswers returns every knowledge-base entry, ordered by question.
func (c *Client) ListAnswers(ctx context.Context) ([]Answer, error) {
	data, err := c.do(ctx, http.MethodGet, answersPath, nil)
	if err != nil {
		return nil, err
	}

	var answers []Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}
	return answers, nil
}

// PutAnswer adds or replaces the answer for question.
func (c *Client) PutAnswer(ctx context.Context, question, answer string) (*Answer, error) {
	body := map[string]string{"question": question, "answer": answer}
	data, err := c.do(ctx, http.MethodPut, answersPath, body)
	if err != nil {
		return nil, err
	}

	var a Answer
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing answer: %w", err)
	}
	return &a, nil
}

// DeleteAnswer removes the entry for question. A missing entry is an
// *APIError with status 404.
func (c *Client) DeleteAnswer(ctx context.Context, question string) error {
	_, err := c.do(ctx, http.MethodDelete, answersPath+"?question="+url.QueryEscape(question), nil)
	return err
}
