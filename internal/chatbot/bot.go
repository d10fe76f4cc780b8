// ABOUTME: Chatbot that answers chat text from keyword rules and a knowledge base
// ABOUTME: Falls back to fuzzy matching and a fixed reply when nothing matches

package chatbot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/grupo9/campus-g9/internal/cache"
	"github.com/grupo9/campus-g9/internal/store"
)

// Author is the author name attached to every reply.
const Author = "Bot G9"

// Replies produced by the keyword rules.
const (
	GreetingReply = "¡Hola! Soy el Chatbot Académico G9."
	ExamDateReply = "El certamen es el 25 de Noviembre."
)

// DefaultFallback is used when Config.Fallback is empty.
const DefaultFallback = "No entiendo. Prueba 'hola'."

// Reply is the chatbot's answer to one message.
type Reply struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// rule maps a keyword contained in the lower-cased text to a fixed reply.
type rule struct {
	keyword string
	reply   string
}

var rules = []rule{
	{keyword: "hola", reply: GreetingReply},
	{keyword: "fecha", reply: ExamDateReply},
}

// Config configures a Bot.
type Config struct {
	Store       store.AnswerStore
	Logger      *slog.Logger
	MaxDistance int
	Fallback    string
	CacheTTL    time.Duration
	CacheSize   int
}

// lookup is a memoised knowledge-base result.
type lookup struct {
	answer string
	found  bool
}

// Bot answers chat messages.
type Bot struct {
	store       store.AnswerStore
	logger      *slog.Logger
	maxDistance int
	fallback    string
	cache       *cache.Cache[lookup]
}

// New creates a Bot. Store is required.
func New(cfg Config) (*Bot, error) {
	if cfg.Store == nil {
		return nil, errors.New("chatbot: store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 1024
	}

	return &Bot{
		store:       cfg.Store,
		logger:      logger,
		maxDistance: cfg.MaxDistance,
		fallback:    fallback,
		cache:       cache.New[lookup](ttl, size),
	}, nil
}

// Answer returns the reply for text. It never fails: knowledge-base errors
// are logged and treated as a miss.
func (b *Bot) Answer(ctx context.Context, text string) Reply {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return Reply{Content: r.reply, Author: Author}
		}
	}

	question := store.NormalizeQuestion(text)
	if question != "" {
		if res := b.lookup(ctx, question); res.found {
			return Reply{Content: res.answer, Author: Author}
		}
	}

	return Reply{Content: b.fallback, Author: Author}
}

// lookup resolves a normalised question through the cache, the exact
// knowledge-base entry, and finally fuzzy matching.
func (b *Bot) lookup(ctx context.Context, question string) lookup {
	if res, ok := b.cache.Get(question); ok {
		return res
	}

	// A write that lands while resolve runs purges the cache; the result
	// computed from the old state must not be stored after that purge.
	gen := b.cache.Generation()
	res, err := b.resolve(ctx, question)
	if err != nil {
		b.logger.Error("knowledge base lookup failed", "question", question, "error", err)
		return lookup{}
	}

	b.cache.SetIfGeneration(question, res, gen)
	return res
}

func (b *Bot) resolve(ctx context.Context, question string) (lookup, error) {
	a, err := b.store.GetAnswer(ctx, question)
	if err == nil {
		return lookup{answer: a.Answer, found: true}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return lookup{}, err
	}

	if b.maxDistance <= 0 {
		return lookup{}, nil
	}

	all, err := b.store.ListAnswers(ctx)
	if err != nil {
		return lookup{}, err
	}

	best := -1
	var bestAnswer string
	for _, candidate := range all {
		d := levenshtein.ComputeDistance(question, candidate.Question)
		if d > b.maxDistance {
			continue
		}
		if best == -1 || d < best {
			best = d
			bestAnswer = candidate.Answer
		}
	}
	if best == -1 {
		return lookup{}, nil
	}

	b.logger.Debug("fuzzy knowledge base match", "question", question, "distance", best)
	return lookup{answer: bestAnswer, found: true}, nil
}

// ListAnswers returns the knowledge base.
func (b *Bot) ListAnswers(ctx context.Context) ([]*store.Answer, error) {
	return b.store.ListAnswers(ctx)
}

// PutAnswer stores an entry and drops cached lookups.
func (b *Bot) PutAnswer(ctx context.Context, question, answer string) (*store.Answer, error) {
	a := &store.Answer{Question: question, Answer: answer}
	if err := b.store.PutAnswer(ctx, a); err != nil {
		return nil, err
	}
	b.cache.Purge()
	return a, nil
}

// DeleteAnswer removes an entry and drops cached lookups.
func (b *Bot) DeleteAnswer(ctx context.Context, question string) error {
	if err := b.store.DeleteAnswer(ctx, question); err != nil {
		return err
	}
	b.cache.Purge()
	return nil
}

// Close stops the cache's background cleanup.
func (b *Bot) Close() {
	b.cache.Close()
}
