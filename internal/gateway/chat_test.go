// ABOUTME: Tests for the chat route and the knowledge-base admin routes
// ABOUTME: Admin routes are exercised with real JWTs from the auth package

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo9/campus-g9/internal/auth"
	"github.com/grupo9/campus-g9/internal/chatbot"
	"github.com/grupo9/campus-g9/internal/store"
)

func TestChat_KeywordRules(t *testing.T) {
	gw, _ := newTestGateway(t, nil)

	tests := []struct {
		text string
		want string
	}{
		{"Hola!", chatbot.GreetingReply},
		{"cuál es la fecha?", chatbot.ExamDateReply},
		{"???", chatbot.DefaultFallback},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			rec := do(t, gw, http.MethodPost, "/api/chat", map[string]string{"text": tt.text})
			require.Equal(t, http.StatusOK, rec.Code)

			var reply chatbot.Reply
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
			assert.Equal(t, tt.want, reply.Content)
			assert.Equal(t, "Bot G9", reply.Author)
		})
	}
}

func TestChat_KnowledgeBase(t *testing.T) {
	gw, s := newTestGateway(t, nil)
	require.NoError(t, s.PutAnswer(context.Background(), &store.Answer{Question: "horario", Answer: "Lunes 10:00"}))

	rec := do(t, gw, http.MethodPost, "/api/chat", map[string]string{"text": "Horario"})

	var reply chatbot.Reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Equal(t, "Lunes 10:00", reply.Content)
}

func TestChat_MissingText(t *testing.T) {
	gw, _ := newTestGateway(t, nil)

	rec := do(t, gw, http.MethodPost, "/api/chat", map[string]string{})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "field required: text", detailOf(t, rec))
}

func adminToken(t *testing.T) string {
	t.Helper()
	verifier, err := auth.NewJWTVerifier([]byte(testJWTSecret))
	require.NoError(t, err)
	token, err := verifier.Generate("admin", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAnswers_RequireToken(t *testing.T) {
	gw, _ := newTestGateway(t, nil)

	rec := do(t, gw, http.MethodGet, "/api/chat/answers", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnswers_NotRegisteredWithoutSecret(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Auth.JWTSecret = ""
	gw, _ := newTestGatewayWithConfig(t, cfg)

	rec := do(t, gw, http.MethodGet, "/api/chat/answers", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswers_CRUD(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	token := adminToken(t)

	rec := do(t, gw, http.MethodPut, "/api/chat/answers",
		map[string]string{"question": " Sala ", "answer": "A-101"}, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var put AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &put))
	assert.Equal(t, "sala", put.Question)
	assert.Equal(t, "A-101", put.Answer)

	rec = do(t, gw, http.MethodGet, "/api/chat/answers", nil, "Authorization", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "sala", list[0].Question)

	// Chat sees the new entry right away.
	rec = do(t, gw, http.MethodPost, "/api/chat", map[string]string{"text": "sala"})
	assert.Contains(t, rec.Body.String(), "A-101")

	rec = do(t, gw, http.MethodDelete, "/api/chat/answers?question="+url.QueryEscape("SALA"), nil, "Authorization", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, gw, http.MethodDelete, "/api/chat/answers?question=sala", nil, "Authorization", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswers_Validation(t *testing.T) {
	gw, _ := newTestGateway(t, nil)
	token := adminToken(t)

	rec := do(t, gw, http.MethodPut, "/api/chat/answers", map[string]string{"question": "x"}, "Authorization", token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "field required: answer", detailOf(t, rec))

	rec = do(t, gw, http.MethodPut, "/api/chat/answers",
		map[string]string{"question": "  ", "answer": "x"}, "Authorization", token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, gw, http.MethodDelete, "/api/chat/answers", nil, "Authorization", token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnswers_EmptyList(t *testing.T) {
	gw, _ := newTestGateway(t, nil)

	rec := do(t, gw, http.MethodGet, "/api/chat/answers", nil, "Authorization", adminToken(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
