// ABOUTME: Tests for the chatbot's keyword rules, knowledge base lookups and caching
// ABOUTME: Uses the in-memory MockStore to observe store traffic

package chatbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo9/campus-g9/internal/store"
)

func newTestBot(t *testing.T, maxDistance int) (*Bot, *store.MockStore) {
	t.Helper()
	s := store.NewMockStore()
	bot, err := New(Config{
		Store:       s,
		MaxDistance: maxDistance,
		CacheTTL:    time.Minute,
		CacheSize:   16,
	})
	require.NoError(t, err)
	t.Cleanup(bot.Close)
	return bot, s
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestAnswer_KeywordRules(t *testing.T) {
	bot, _ := newTestBot(t, 2)
	ctx := context.Background()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"greeting", "hola", GreetingReply},
		{"greeting mixed case", "HoLa bot", GreetingReply},
		{"exam date", "cual es la fecha del certamen?", ExamDateReply},
		{"greeting wins over date", "hola, y la fecha?", GreetingReply},
		{"unknown", "xyz", DefaultFallback},
		{"empty", "", DefaultFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := bot.Answer(ctx, tt.text)
			assert.Equal(t, tt.want, reply.Content)
			assert.Equal(t, Author, reply.Author)
		})
	}
}

func TestAnswer_KeywordsSkipStore(t *testing.T) {
	bot, s := newTestBot(t, 2)

	bot.Answer(context.Background(), "hola")
	assert.Equal(t, 0, s.Lookups)
}

func TestAnswer_ExactKnowledgeBaseMatch(t *testing.T) {
	bot, s := newTestBot(t, 0)
	ctx := context.Background()
	require.NoError(t, s.PutAnswer(ctx, &store.Answer{Question: "horario", Answer: "Lunes 10:00"}))

	reply := bot.Answer(ctx, "  Horario ")
	assert.Equal(t, "Lunes 10:00", reply.Content)
}

func TestAnswer_FuzzyMatch(t *testing.T) {
	bot, s := newTestBot(t, 2)
	ctx := context.Background()
	require.NoError(t, s.PutAnswer(ctx, &store.Answer{Question: "horario", Answer: "Lunes 10:00"}))
	require.NoError(t, s.PutAnswer(ctx, &store.Answer{Question: "sala", Answer: "A-101"}))

	assert.Equal(t, "Lunes 10:00", bot.Answer(ctx, "horarjo").Content)
	assert.Equal(t, "A-101", bot.Answer(ctx, "salas").Content)
	assert.Equal(t, DefaultFallback, bot.Answer(ctx, "biblioteca").Content)
}

func TestAnswer_FuzzyDisabled(t *testing.T) {
	bot, s := newTestBot(t, 0)
	ctx := context.Background()
	require.NoError(t, s.PutAnswer(ctx, &store.Answer{Question: "horario", Answer: "Lunes 10:00"}))

	assert.Equal(t, DefaultFallback, bot.Answer(ctx, "horarjo").Content)
}

func TestAnswer_CustomFallback(t *testing.T) {
	bot, err := New(Config{Store: store.NewMockStore(), Fallback: "Lo siento"})
	require.NoError(t, err)
	defer bot.Close()

	assert.Equal(t, "Lo siento", bot.Answer(context.Background(), "???").Content)
}

func TestAnswer_CachesLookups(t *testing.T) {
	bot, s := newTestBot(t, 0)
	ctx := context.Background()
	require.NoError(t, s.PutAnswer(ctx, &store.Answer{Question: "sala", Answer: "A-101"}))

	bot.Answer(ctx, "sala")
	bot.Answer(ctx, "SALA")
	bot.Answer(ctx, "nada")
	bot.Answer(ctx, "nada")

	assert.Equal(t, 2, s.Lookups, "hits and misses should both be cached")
}

func TestPutAnswer_PurgesCache(t *testing.T) {
	bot, _ := newTestBot(t, 0)
	ctx := context.Background()

	assert.Equal(t, DefaultFallback, bot.Answer(ctx, "sala").Content)

	_, err := bot.PutAnswer(ctx, "Sala", "A-101")
	require.NoError(t, err)
	assert.Equal(t, "A-101", bot.Answer(ctx, "sala").Content)

	require.NoError(t, bot.DeleteAnswer(ctx, "sala"))
	assert.Equal(t, DefaultFallback, bot.Answer(ctx, "sala").Content)
}

func TestPutAnswer_EmptyQuestion(t *testing.T) {
	bot, _ := newTestBot(t, 0)

	_, err := bot.PutAnswer(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, store.ErrEmptyQuestion)
}

func TestDeleteAnswer_NotFound(t *testing.T) {
	bot, _ := newTestBot(t, 0)

	err := bot.DeleteAnswer(context.Background(), "nada")
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

type failingStore struct {
	*store.MockStore
}

func (f failingStore) GetAnswer(ctx context.Context, question string) (*store.Answer, error) {
	return nil, errors.New("disk on fire")
}

func TestAnswer_StoreErrorFallsBack(t *testing.T) {
	bot, err := New(Config{Store: failingStore{store.NewMockStore()}, MaxDistance: 2})
	require.NoError(t, err)
	defer bot.Close()

	assert.Equal(t, DefaultFallback, bot.Answer(context.Background(), "sala").Content)
}

// writeDuringLookup runs onMiss once, after the first lookup has already
// seen a miss but before the bot caches it.
type writeDuringLookup struct {
	*store.MockStore
	onMiss func()
	fired  bool
}

func (w *writeDuringLookup) GetAnswer(ctx context.Context, question string) (*store.Answer, error) {
	a, err := w.MockStore.GetAnswer(ctx, question)
	if errors.Is(err, store.ErrNotFound) && !w.fired {
		w.fired = true
		w.onMiss()
	}
	return a, err
}

func TestAnswer_WriteDuringLookupIsNotMasked(t *testing.T) {
	s := &writeDuringLookup{MockStore: store.NewMockStore()}
	bot, err := New(Config{Store: s, CacheTTL: time.Minute, CacheSize: 16})
	require.NoError(t, err)
	defer bot.Close()

	ctx := context.Background()
	s.onMiss = func() {
		_, err := bot.PutAnswer(ctx, "horario", "lunes 10:00")
		require.NoError(t, err)
	}

	// This lookup read the store before the write; its miss is stale.
	assert.Equal(t, DefaultFallback, bot.Answer(ctx, "horario").Content)
	assert.Equal(t, "lunes 10:00", bot.Answer(ctx, "horario").Content)
}
