// ABOUTME: Wire types for the gateway API: auth bodies, channels, chat replies
// ABOUTME: Channel decoding accepts either "_id" or "id" as the identifier

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AuthRequest is sent to both the login and register routes.
type AuthRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

// Channel is a channel as reported by the channels service.
type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
	Status  string `json:"status"`
}

// UnmarshalJSON reads "_id" when present, else "id". Numeric ids are kept
// in their decimal form.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var wire struct {
		MongoID json.RawMessage `json:"_id"`
		ID      json.RawMessage `json:"id"`
		Name    *string         `json:"name"`
		OwnerID json.RawMessage `json:"owner_id"`
		Status  *string         `json:"status"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id, err := scalarString(wire.MongoID)
	if err != nil {
		return fmt.Errorf("channel _id: %w", err)
	}
	if id == "" {
		if id, err = scalarString(wire.ID); err != nil {
			return fmt.Errorf("channel id: %w", err)
		}
	}
	owner, err := scalarString(wire.OwnerID)
	if err != nil {
		return fmt.Errorf("channel owner_id: %w", err)
	}

	*c = Channel{ID: id, OwnerID: owner}
	if wire.Name != nil {
		c.Name = *wire.Name
	}
	if wire.Status != nil {
		c.Status = *wire.Status
	}
	return nil
}

// scalarString renders a JSON string or number as a string. null and
// absent values become "".
func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", strings.TrimSpace(string(raw)))
	}
	return n.String(), nil
}

// IsZero reports whether the channel carries no data at all, as when the
// gateway answers {} for an unknown channel.
func (c Channel) IsZero() bool {
	return c == Channel{}
}

// ChatReply is the chatbot's answer.
type ChatReply struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// APIError is a non-2xx gateway answer.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gateway returned status %d", e.Status)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.Status, e.Detail)
}
