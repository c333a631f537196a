// Package agents builds study sessions: it picks word sets, fills in missing
// content, generates quizzes and recommends the next session size.
package agents

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/example/vocabot/internal/dictionary"
	"github.com/example/vocabot/internal/logger"
	"github.com/example/vocabot/pkg/models"
)

// DueWordsLister reports words due for review
type DueWordsLister interface {
	DueWords(ctx context.Context) []string
}

// WordSource provides word content and suggestions
type WordSource interface {
	FetchDefinition(ctx context.Context, word string) (models.WordInfo, dictionary.Outcome)
	SuggestWords(count int, level models.Level) []string
}

// Assistant writes an example sentence for a word
type Assistant interface {
	Example(ctx context.Context, word string) (string, error)
}

// Agents combines progress and word content into sessions
type Agents struct {
	progress  DueWordsLister
	words     WordSource
	assistant Assistant
	log       *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// Option configures Agents
type Option func(*Agents)

// WithAssistant enables generated examples
func WithAssistant(a Assistant) Option {
	return func(ag *Agents) { ag.assistant = a }
}

// WithRand sets the random source used for quizzes
func WithRand(rnd *rand.Rand) Option {
	return func(ag *Agents) { ag.rnd = rnd }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(ag *Agents) { ag.log = log }
}

// New creates Agents
func New(progress DueWordsLister, words WordSource, opts ...Option) *Agents {
	ag := &Agents{
		progress: progress,
		words:    words,
		log:      logger.Discard(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(ag)
	}
	ag.log = ag.log.With("component", "agents")
	return ag
}

// GenerateWordSet selects up to count words, due words first, then
// suggestions for level, and returns their enriched content.
func (ag *Agents) GenerateWordSet(ctx context.Context, count int, level models.Level) []models.WordInfo {
	if count <= 0 {
		return []models.WordInfo{}
	}

	words := make([]string, 0, count)
	for _, w := range ag.progress.DueWords(ctx) {
		if len(words) >= count {
			break
		}
		words = append(words, w)
	}

	if needed := count - len(words); needed > 0 {
		for _, s := range ag.words.SuggestWords(needed, level) {
			if !contains(words, s) {
				words = append(words, s)
			}
		}
	}
	if len(words) > count {
		words = words[:count]
	}

	set := make([]models.WordInfo, 0, len(words))
	for _, w := range words {
		info, outcome := ag.words.FetchDefinition(ctx, w)
		ag.log.DebugContext(ctx, "word fetched",
			slog.String("word", w),
			slog.String("source", outcome.String()),
		)
		if info.Example == nil && ag.assistant != nil {
			ag.generateExample(ctx, &info)
		}
		set = append(set, EnrichWord(info))
	}
	return set
}

func (ag *Agents) generateExample(ctx context.Context, info *models.WordInfo) {
	example, err := ag.assistant.Example(ctx, info.Word)
	if err != nil || example == "" {
		ag.log.WarnContext(ctx, "assistant example failed",
			slog.String("word", info.Word),
			slog.Any("error", err),
		)
		return
	}
	info.Example = &example
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
