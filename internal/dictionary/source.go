// Package dictionary provides word content: a remote dictionary lookup with a
// fallback to the local word list, plus word suggestions from that list.
package dictionary

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/example/vocabot/internal/logger"
	"github.com/example/vocabot/internal/wordlist"
	"github.com/example/vocabot/pkg/models"
)

// minPoolSize is the smallest easy/hard pool, even for short lists
const minPoolSize = 5

// Outcome tells which path produced a WordInfo
type Outcome int

const (
	// Remote means the dictionary service answered
	Remote Outcome = iota
	// Local means the entry came from the local word list
	Local
	// Empty means nothing was found anywhere
	Empty
)

func (o Outcome) String() string {
	switch o {
	case Remote:
		return "remote"
	case Local:
		return "local"
	default:
		return "empty"
	}
}

// Lookuper fetches a definition from a remote service
type Lookuper interface {
	Lookup(ctx context.Context, word string) (*models.WordInfo, error)
}

// Source combines a remote Lookuper with the local word list
type Source struct {
	remote  Lookuper
	entries []wordlist.Entry
	log     *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// SourceOption configures a Source
type SourceOption func(*Source)

// WithRand sets the random source used by SuggestWords
func WithRand(rnd *rand.Rand) SourceOption {
	return func(s *Source) { s.rnd = rnd }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) SourceOption {
	return func(s *Source) { s.log = log }
}

// NewSource creates a source. remote may be nil for offline use.
func NewSource(remote Lookuper, entries []wordlist.Entry, opts ...SourceOption) *Source {
	s := &Source{
		remote:  remote,
		entries: entries,
		log:     logger.Discard(),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the size of the local word list
func (s *Source) Len() int {
	return len(s.entries)
}

// FetchDefinition returns the content of word. It tries the remote service
// once, then the local list (case-insensitive), and finally returns an empty
// WordInfo. It never fails; the Outcome tells which path was used.
func (s *Source) FetchDefinition(ctx context.Context, word string) (models.WordInfo, Outcome) {
	if s.remote != nil {
		info, err := s.remote.Lookup(ctx, word)
		if err == nil && info != nil {
			return *info, Remote
		}
		s.log.DebugContext(ctx, "remote lookup failed, using local list",
			slog.String("word", word),
			slog.Any("error", err),
		)
	}

	for _, e := range s.entries {
		if strings.EqualFold(e.Word, word) {
			defs := make([]string, len(e.Definitions))
			copy(defs, e.Definitions)
			return models.WordInfo{
				Word:        e.Word,
				Definitions: defs,
				Example:     e.Example,
			}, Local
		}
	}

	return models.WordInfo{Word: word, Definitions: []string{}}, Empty
}

// SuggestWords returns up to count distinct random words from the pool for
// level. Easy words come from the start of the list, hard ones from the end,
// medium uses the whole list.
func (s *Source) SuggestWords(count int, level models.Level) []string {
	if len(s.entries) == 0 || count <= 0 {
		return []string{}
	}

	pool := Pool(wordlist.Words(s.entries), level)
	if count > len(pool) {
		count = len(pool)
	}

	s.mu.Lock()
	picked := s.rnd.Perm(len(pool))[:count]
	s.mu.Unlock()

	out := make([]string, count)
	for i, idx := range picked {
		out[i] = pool[idx]
	}
	return out
}

// Pool returns the slice of words a level draws from: the first third for
// easy, the last third for hard (at least minPoolSize words each) and all
// words otherwise.
func Pool(words []string, level models.Level) []string {
	size := len(words) / 3
	if size < minPoolSize {
		size = minPoolSize
	}
	if size > len(words) {
		size = len(words)
	}

	switch level {
	case models.LevelEasy:
		return words[:size]
	case models.LevelHard:
		return words[len(words)-size:]
	default:
		return words
	}
}
