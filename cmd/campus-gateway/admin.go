// ABOUTME: Admin subcommands: token minting and knowledge-base maintenance
// ABOUTME: answers goes through a running gateway when reachable, else the database

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"

	"github.com/grupo9/campus-g9/internal/auth"
	"github.com/grupo9/campus-g9/internal/chatbot"
	"github.com/grupo9/campus-g9/internal/client"
	"github.com/grupo9/campus-g9/internal/config"
	"github.com/grupo9/campus-g9/internal/store"
)

const defaultTokenTTL = 30 * 24 * time.Hour

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "", "operator name carried in the token's sub claim")
	ttl := fs.Duration("ttl", defaultTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := strings.TrimSpace(*subject)
	if name == "" {
		return errors.New("--subject is required")
	}
	if *ttl <= 0 {
		return errors.New("--ttl must be positive")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is not configured")
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating JWT verifier: %w", err)
	}
	token, err := verifier.Generate(name, *ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	expires := time.Now().Add(*ttl).UTC()
	fmt.Fprintf(os.Stderr, "token for %s, expires %s\n", name, expires.Format("Jan 02, 2006"))
	fmt.Println(token)
	return nil
}

// answerFile is the TOML import format:
//
//	[[answer]]
//	question = "horario"
//	answer = "Lunes y miércoles, 10:00"
type answerFile struct {
	Answers []answerEntry `toml:"answer"`
}

type answerEntry struct {
	Question string `toml:"question"`
	Answer   string `toml:"answer"`
}

// loadAnswerFile decodes and checks an import file. Unknown keys are an
// error so typos do not silently drop entries.
func loadAnswerFile(r io.Reader) ([]answerEntry, error) {
	var f answerFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("parsing answers: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	for i, e := range f.Answers {
		if store.NormalizeQuestion(e.Question) == "" {
			return nil, fmt.Errorf("answer %d: question is empty", i+1)
		}
		if strings.TrimSpace(e.Answer) == "" {
			return nil, fmt.Errorf("answer %d (%q): answer is empty", i+1, e.Question)
		}
	}
	return f.Answers, nil
}

// cliTokenTTL bounds the token minted for one answers command.
const cliTokenTTL = 5 * time.Minute

// answerBook is the knowledge base as the answers command sees it: either
// the local database behind a chatbot or a running gateway's admin routes.
type answerBook interface {
	ListAnswers(ctx context.Context) ([]*store.Answer, error)
	PutAnswer(ctx context.Context, question, answer string) (*store.Answer, error)
	DeleteAnswer(ctx context.Context, question string) error
}

// remoteAnswers drives the admin routes of a running gateway, so writes
// purge that gateway's chatbot cache.
type remoteAnswers struct {
	c *client.Client
}

func toStoreAnswer(a client.Answer) *store.Answer {
	return &store.Answer{
		Question:  a.Question,
		Answer:    a.Answer,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (r remoteAnswers) ListAnswers(ctx context.Context) ([]*store.Answer, error) {
	answers, err := r.c.ListAnswers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*store.Answer, len(answers))
	for i, a := range answers {
		out[i] = toStoreAnswer(a)
	}
	return out, nil
}

func (r remoteAnswers) PutAnswer(ctx context.Context, question, answer string) (*store.Answer, error) {
	a, err := r.c.PutAnswer(ctx, question, answer)
	if err != nil {
		return nil, err
	}
	return toStoreAnswer(*a), nil
}

func (r remoteAnswers) DeleteAnswer(ctx context.Context, question string) error {
	err := r.c.DeleteAnswer(ctx, question)
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return store.ErrNotFound
	}
	return err
}

// gatewayAnswers returns the admin routes of the gateway at baseURL when it
// answers its health check and cfg carries the secret to sign a token.
func gatewayAnswers(ctx context.Context, cfg *config.Config, baseURL string) (answerBook, bool) {
	if cfg.Auth.JWTSecret == "" {
		return nil, false
	}

	c := client.New(baseURL, &http.Client{Timeout: 10 * time.Second})
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Health(probeCtx); err != nil {
		return nil, false
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, false
	}
	token, err := verifier.Generate("campus-gateway-cli", cliTokenTTL)
	if err != nil {
		return nil, false
	}
	c.Token = token
	return remoteAnswers{c: c}, true
}

// openBot opens the configured knowledge base behind a chatbot.
func openBot(cfg *config.Config) (*chatbot.Bot, store.AnswerStore, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("CAMPUS_DB_PATH"); envPath != "" {
		dbPath = envPath
	}
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	bot, err := chatbot.New(chatbot.Config{
		Store:       s,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxDistance: cfg.Chatbot.MaxDistance(),
		Fallback:    cfg.Chatbot.Fallback,
	})
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return bot, s, nil
}

// runAnswers edits the knowledge base through a running gateway when one is
// reachable, so its chatbot cache is purged. --local, or no reachable
// gateway, writes the database directly; a gateway started on the same file
// may then serve cached replies for up to chatbot.cache_ttl.
func runAnswers(ctx context.Context, args []string) error {
	local := false
	if len(args) > 0 && args[0] == "--local" {
		local = true
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("usage: campus-gateway answers [--local] list|set|delete|import")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if !local {
		addr := localGatewayURL(cfg)
		if book, ok := gatewayAnswers(ctx, cfg, addr); ok {
			fmt.Fprintf(os.Stderr, "using running gateway at %s\n", addr)
			return answersCommand(ctx, book, os.Stdout, args)
		}
	}

	bot, s, err := openBot(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	defer bot.Close()

	return answersCommand(ctx, bot, os.Stdout, args)
}

// answersCommand runs one answers subcommand against book.
func answersCommand(ctx context.Context, book answerBook, out io.Writer, args []string) error {
	green := color.New(color.FgGreen)

	switch args[0] {
	case "list":
		answers, err := book.ListAnswers(ctx)
		if err != nil {
			return fmt.Errorf("listing answers: %w", err)
		}
		if len(answers) == 0 {
			fmt.Fprintln(out, "no answers")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "QUESTION\tANSWER\tUPDATED")
		for _, a := range answers {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Question, a.Answer, a.UpdatedAt.Format(time.DateTime))
		}
		return tw.Flush()

	case "set":
		if len(args) != 3 {
			return errors.New("usage: campus-gateway answers set QUESTION ANSWER")
		}
		a, err := book.PutAnswer(ctx, args[1], args[2])
		if err != nil {
			return fmt.Errorf("saving answer: %w", err)
		}
		green.Fprintf(out, "✓ %s\n", a.Question)
		return nil

	case "delete":
		if len(args) != 2 {
			return errors.New("usage: campus-gateway answers delete QUESTION")
		}
		if err := book.DeleteAnswer(ctx, args[1]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no answer for %q", args[1])
			}
			return fmt.Errorf("deleting answer: %w", err)
		}
		green.Fprintf(out, "✓ deleted %s\n", store.NormalizeQuestion(args[1]))
		return nil

	case "import":
		if len(args) != 2 {
			return errors.New("usage: campus-gateway answers import FILE.toml")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		entries, err := loadAnswerFile(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}
		for _, e := range entries {
			if _, err := book.PutAnswer(ctx, e.Question, e.Answer); err != nil {
				return fmt.Errorf("saving %q: %w", e.Question, err)
			}
		}
		green.Fprintf(out, "✓ imported %d answers\n", len(entries))
		return nil

	default:
		return fmt.Errorf("unknown answers command: %s", args[0])
	}
}
