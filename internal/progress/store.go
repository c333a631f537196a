// Package progress keeps the learner's single progress record and the
// interval-doubling review schedule.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/vocabot/internal/logger"
	"github.com/example/vocabot/internal/spaced_repetition"
	"github.com/example/vocabot/pkg/models"
)

// PointsPerKnown is awarded each time a word is marked as known
const PointsPerKnown = 10

// Outcome tells where a loaded record came from
type Outcome int

const (
	// Loaded means the stored document was read successfully
	Loaded Outcome = iota
	// Created means no document existed and the default was written
	Created
	// Recovered means the stored document was unreadable and got replaced by the default
	Recovered
)

func (o Outcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Created:
		return "created"
	case Recovered:
		return "recovered"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Store loads, mutates and saves the progress record. Every operation reads
// the whole document and, when it changes something, writes it back.
// A Store is safe for concurrent use within one process only.
type Store struct {
	storage Storage
	now     func() time.Time
	log     *slog.Logger
	mu      sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a store on top of storage
func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "progress")
	return s
}

// Load returns the stored record. A missing or corrupt document is replaced
// by the default record, which is written back; Load itself never fails.
// When the storage cannot be read at all the default record is returned
// without touching what is stored.
func (s *Store) Load(ctx context.Context) (*models.Record, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, outcome, err := s.load(ctx)
	if err != nil {
		return models.NewRecord(), Recovered
	}
	return rec, outcome
}

// Save writes rec as the whole document
func (s *Store) Save(ctx context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, rec)
}

// MarkSeen records one review of word. A known word doubles its interval and
// earns points, an unknown one resets the interval and the streak. The
// updated record is returned even when saving it fails. If the stored record
// cannot be read nothing is changed and the record is nil.
func (s *Store) MarkSeen(ctx context.Context, word string, known bool) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("mark %q: %w", word, err)
	}
	interval := spaced_repetition.Review(rec.Words.GetOrCreate(word), known, s.now())

	if known {
		rec.User.Points += PointsPerKnown
		rec.User.Streak++
	} else {
		rec.User.Streak = 0
	}

	s.log.Debug("word reviewed",
		slog.String("word", word),
		slog.Bool("known", known),
		slog.Int("interval", interval),
		slog.Int("points", rec.User.Points),
	)

	if err := s.save(ctx, rec); err != nil {
		return rec, fmt.Errorf("mark %q: %w", word, err)
	}
	return rec, nil
}

// DueWords returns the words whose review time has passed or is unknown,
// in the order they were first recorded.
func (s *Store) DueWords(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.load(ctx)
	if err != nil {
		return []string{}
	}
	return spaced_repetition.DueWords(rec.Words, s.now())
}

// SetName updates the profile name. Blank names are ignored.
func (s *Store) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	rec.User.Name = name
	return s.save(ctx, rec)
}

// load reads the record. Only a missing or undecodable document is replaced
// by the default; a failed read is returned as is and nothing gets written.
func (s *Store) load(ctx context.Context) (*models.Record, Outcome, error) {
	data, err := s.storage.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return s.writeDefault(ctx, Created), Created, nil
		}
		s.log.Warn("progress unreadable", slog.Any("error", err))
		return nil, Recovered, err
	}

	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn("progress corrupt, starting over", slog.Any("error", err))
		return s.writeDefault(ctx, Recovered), Recovered, nil
	}
	rec.Normalize()
	return &rec, Loaded, nil
}

func (s *Store) writeDefault(ctx context.Context, outcome Outcome) *models.Record {
	rec := models.NewRecord()
	if err := s.save(ctx, rec); err != nil {
		s.log.Error("failed to write default progress",
			slog.String("outcome", outcome.String()),
			slog.Any("error", err),
		)
	}
	return rec
}

func (s *Store) save(ctx context.Context, rec *models.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling progress data: %w", err)
	}
	if err := s.storage.Write(ctx, data); err != nil {
		return err
	}
	return nil
}
