package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabot/internal/config"
	"github.com/example/vocabot/internal/logger"
)

type staticDue []string

func (d staticDue) DueWords(context.Context) []string { return d }

type recordingNotifier struct {
	mu     sync.Mutex
	counts []int
	err    error
}

func (n *recordingNotifier) NotifyDue(_ context.Context, count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.counts = append(n.counts, count)
	return n.err
}

func (n *recordingNotifier) calls() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int(nil), n.counts...)
}

func testLogger() *slog.Logger {
	return logger.Discard()
}

func reminderConfig() config.ReminderConfig {
	return config.ReminderConfig{Enabled: true, Every: time.Hour, StartHour: 8, EndHour: 22}
}

func TestRunOnce(t *testing.T) {
	n := &recordingNotifier{}
	s := New(staticDue{"lucid", "wary"}, n, reminderConfig(), testLogger())

	count, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []int{2}, n.calls())
}

func TestRunOnce_NothingDue(t *testing.T) {
	n := &recordingNotifier{}
	s := New(staticDue{}, n, reminderConfig(), testLogger())

	count, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, n.calls())
}

func TestRunOnce_NotifierError(t *testing.T) {
	n := &recordingNotifier{err: errors.New("chat not found")}
	s := New(staticDue{"lucid"}, n, reminderConfig(), testLogger())

	_, err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "chat not found")
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		hour       int
		want       bool
	}{
		{"inside", 8, 22, 12, true},
		{"start inclusive", 8, 22, 8, true},
		{"end inclusive", 8, 22, 22, true},
		{"before", 8, 22, 7, false},
		{"after", 8, 22, 23, false},
		{"overnight late", 22, 6, 23, true},
		{"overnight early", 22, 6, 3, true},
		{"overnight midday", 22, 6, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := reminderConfig()
			cfg.StartHour, cfg.EndHour = tt.start, tt.end
			s := New(staticDue{}, &recordingNotifier{}, cfg, testLogger())
			assert.Equal(t, tt.want, s.InWindow(tt.hour))
		})
	}
}

func TestCheck_RespectsWindow(t *testing.T) {
	n := &recordingNotifier{}
	night := func() time.Time { return time.Date(2024, 5, 10, 3, 0, 0, 0, time.Local) }
	s := New(staticDue{"lucid"}, n, reminderConfig(), testLogger(), WithClock(night))

	s.check(context.Background())
	assert.Empty(t, n.calls())

	s.now = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local) }
	s.check(context.Background())
	assert.Equal(t, []int{1}, n.calls())
}

func TestRun_FiresImmediatelyAndStops(t *testing.T) {
	n := &recordingNotifier{}
	noon := func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local) }
	s := New(staticDue{"lucid", "wary", "brisk"}, n, reminderConfig(), testLogger(), WithClock(noon))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return len(n.calls()) == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.Equal(t, []int{3}, n.calls())
}
