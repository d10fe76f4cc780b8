// ABOUTME: Tests for the admin subcommands
// ABOUTME: Runs answers against a bot and against an in-process gateway

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo9/campus-g9/internal/chatbot"
	"github.com/grupo9/campus-g9/internal/client"
	"github.com/grupo9/campus-g9/internal/config"
	"github.com/grupo9/campus-g9/internal/gateway"
	"github.com/grupo9/campus-g9/internal/store"
)

func newTestBot(t *testing.T) *chatbot.Bot {
	t.Helper()
	bot, err := chatbot.New(chatbot.Config{Store: store.NewMockStore()})
	require.NoError(t, err)
	t.Cleanup(bot.Close)
	return bot
}

func TestLoadAnswerFile(t *testing.T) {
	entries, err := loadAnswerFile(strings.NewReader(`
[[answer]]
question = "Horario"
answer = "Lunes 10:00"

[[answer]]
question = "sala"
answer = "A-101"
`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, answerEntry{Question: "Horario", Answer: "Lunes 10:00"}, entries[0])
}

func TestLoadAnswerFile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "[[answer]]\nquestion = \"q\"\nanswer = \"a\"\nanwser = \"typo\"\n", "unknown keys"},
		{"empty question", "[[answer]]\nquestion = \"  \"\nanswer = \"a\"\n", "question is empty"},
		{"empty answer", "[[answer]]\nquestion = \"q\"\nanswer = \"\"\n", "answer is empty"},
		{"bad toml", "[[answer]\n", "parsing answers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadAnswerFile(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAnswersCommand_SetListDelete(t *testing.T) {
	bot := newTestBot(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, answersCommand(ctx, bot, &out, []string{"set", "Sala", "A-101"}))
	assert.Contains(t, out.String(), "sala")

	out.Reset()
	require.NoError(t, answersCommand(ctx, bot, &out, []string{"list"}))
	assert.Contains(t, out.String(), "QUESTION")
	assert.Contains(t, out.String(), "A-101")

	out.Reset()
	require.NoError(t, answersCommand(ctx, bot, &out, []string{"delete", "SALA"}))
	err := answersCommand(ctx, bot, &out, []string{"delete", "sala"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no answer")

	out.Reset()
	require.NoError(t, answersCommand(ctx, bot, &out, []string{"list"}))
	assert.Equal(t, "no answers\n", out.String())
}

func TestAnswersCommand_Import(t *testing.T) {
	bot := newTestBot(t)
	path := filepath.Join(t.TempDir(), "answers.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[answer]]\nquestion = \"sala\"\nanswer = \"A-101\"\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, answersCommand(context.Background(), bot, &out, []string{"import", path}))
	assert.Contains(t, out.String(), "imported 1 answers")

	reply := bot.Answer(context.Background(), "sala")
	assert.Equal(t, "A-101", reply.Content)
}

func TestAnswersCommand_Usage(t *testing.T) {
	bot := newTestBot(t)
	var out bytes.Buffer

	assert.Error(t, answersCommand(context.Background(), bot, &out, []string{"set", "only-question"}))
	assert.Error(t, answersCommand(context.Background(), bot, &out, []string{"bogus"}))
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CAMPUS_CONFIG", "/tmp/x.yaml")
	assert.Equal(t, "/tmp/x.yaml", getConfigPath())

	t.Setenv("CAMPUS_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	assert.Equal(t, filepath.Join("/cfg", "campus", "gateway.yaml"), getConfigPath())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}

const testSecret = "cli-test-secret-with-at-least-32-bytes"

// newTestServer runs a real gateway over a MockStore.
func newTestServer(t *testing.T) (*config.Config, *httptest.Server) {
	t.Helper()
	cfg := &config.Config{
		Upstreams: config.UpstreamsConfig{
			UsersURL:    "http://127.0.0.1:1",
			ChannelsURL: "http://127.0.0.1:1",
			Timeout:     time.Second,
			ListTimeout: time.Second,
		},
		Auth:    config.AuthConfig{JWTSecret: testSecret},
		Chatbot: config.ChatbotConfig{CacheTTL: time.Minute, CacheSize: 16},
	}
	gw, err := gateway.NewWithStore(cfg, store.NewMockStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = gw.Shutdown(context.Background()) })

	srv := httptest.NewServer(gw.Handler())
	t.Cleanup(srv.Close)
	return cfg, srv
}

func chatOnce(t *testing.T, srv *httptest.Server, text string) string {
	t.Helper()
	reply, err := client.New(srv.URL, srv.Client()).Chat(context.Background(), text)
	require.NoError(t, err)
	return reply.Content
}

func TestAnswersCommand_RunningGatewaySeesWrites(t *testing.T) {
	cfg, srv := newTestServer(t)
	ctx := context.Background()

	// The gateway caches this miss.
	assert.Equal(t, chatbot.DefaultFallback, chatOnce(t, srv, "horario"))

	book, ok := gatewayAnswers(ctx, cfg, srv.URL)
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, answersCommand(ctx, book, &out, []string{"set", "Horario", "lunes 10:00"}))
	assert.Contains(t, out.String(), "horario")
	assert.Equal(t, "lunes 10:00", chatOnce(t, srv, "horario"))

	out.Reset()
	require.NoError(t, answersCommand(ctx, book, &out, []string{"list"}))
	assert.Contains(t, out.String(), "lunes 10:00")

	require.NoError(t, answersCommand(ctx, book, &out, []string{"delete", "horario"}))
	assert.Equal(t, chatbot.DefaultFallback, chatOnce(t, srv, "horario"))

	err := answersCommand(ctx, book, &out, []string{"delete", "horario"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no answer")
}

func TestGatewayAnswers_FallsBackToLocal(t *testing.T) {
	cfg, srv := newTestServer(t)
	ctx := context.Background()

	_, ok := gatewayAnswers(ctx, cfg, "http://127.0.0.1:1")
	assert.False(t, ok, "unreachable gateway")

	noSecret := *cfg
	noSecret.Auth.JWTSecret = ""
	_, ok = gatewayAnswers(ctx, &noSecret, srv.URL)
	assert.False(t, ok, "no secret to sign a token")
}
