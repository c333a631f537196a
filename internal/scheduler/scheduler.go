package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabot/internal/config"
)

// Notifier sends the "words are due" reminder
type Notifier interface {
	NotifyDue(ctx context.Context, count int) error
}

// DueWordsLister reports the words due for review
type DueWordsLister interface {
	DueWords(ctx context.Context) []string
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	progress  DueWordsLister
	notifier  Notifier
	cfg       config.ReminderConfig
	now       func() time.Time
	log       *slog.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithClock overrides the clock used for the notification window
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a new scheduler instance
func New(progress DueWordsLister, notifier Notifier, cfg config.ReminderConfig, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		progress:  progress,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.With("component", "scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run schedules the reminder job and blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) error {
	job, err := s.scheduler.Every(s.cfg.Every).Do(s.check, ctx)
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	job.SingletonMode()

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	s.log.Info("reminder scheduler started",
		slog.Duration("every", s.cfg.Every),
		slog.Int("start_hour", s.cfg.StartHour),
		slog.Int("end_hour", s.cfg.EndHour),
	)

	<-ctx.Done()
	s.scheduler.Stop()
	s.log.Info("reminder scheduler stopped")
	return nil
}

// check is the scheduled job body
func (s *Scheduler) check(ctx context.Context) {
	hour := s.now().Hour()
	if !s.InWindow(hour) {
		s.log.Debug("outside notification hours, skipping reminder",
			slog.Int("hour", hour),
			slog.Int("start_hour", s.cfg.StartHour),
			slog.Int("end_hour", s.cfg.EndHour),
		)
		return
	}

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("send reminder", slog.Any("error", err))
	}
}

// RunOnce sends a reminder if any words are due, ignoring the notification
// window. It returns the number of due words.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	count := len(s.progress.DueWords(ctx))
	if count == 0 {
		return 0, nil
	}
	if err := s.notifier.NotifyDue(ctx, count); err != nil {
		return count, fmt.Errorf("notify %d due words: %w", count, err)
	}
	return count, nil
}

// InWindow reports whether hour is within the notification hours. Both ends
// are inclusive; a start after the end wraps past midnight.
func (s *Scheduler) InWindow(hour int) bool {
	start, end := s.cfg.StartHour, s.cfg.EndHour
	if start <= end {
		return hour >= start && hour <= end
	}
	// окно через полночь, например 22-6
	return hour >= start || hour <= end
}
