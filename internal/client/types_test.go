// ABOUTME: Tests for SDK types
// ABOUTME: Covers lenient channel decoding

package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Channel
	}{
		{"mongo id", `{"_id":"a1","name":"n"}`, Channel{ID: "a1", Name: "n"}},
		{"plain id", `{"id":"b2"}`, Channel{ID: "b2"}},
		{"underscore wins", `{"_id":"a1","id":"b2"}`, Channel{ID: "a1"}},
		{"null underscore falls back", `{"_id":null,"id":"b2"}`, Channel{ID: "b2"}},
		{"numeric ids", `{"id":42,"owner_id":7}`, Channel{ID: "42", OwnerID: "7"}},
		{"unknown fields ignored", `{"id":"x","members":[1,2],"created_at":"today"}`, Channel{ID: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Channel
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChannel_UnmarshalJSON_BadID(t *testing.T) {
	var ch Channel
	assert.Error(t, json.Unmarshal([]byte(`{"_id":{"$oid":"x"}}`), &ch))
}

func TestChannel_IsZero(t *testing.T) {
	assert.True(t, Channel{}.IsZero())
	assert.False(t, Channel{Name: "x"}.IsZero())
}
