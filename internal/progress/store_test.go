package progress

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabot/pkg/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, string, *fakeClock) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "user_progress.json")
	clock := &fakeClock{t: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)}
	return New(NewFileStorage(path), WithClock(clock.Now)), path, clock
}

func TestStore_LoadMissingFileCreatesDefault(t *testing.T) {
	store, path, _ := newTestStore(t)

	rec, outcome := store.Load(context.Background())

	assert.Equal(t, Created, outcome)
	assert.Equal(t, models.User{Name: "Learner", Points: 0, Streak: 0}, rec.User)
	assert.Equal(t, 0, rec.Words.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err, "default record must be written to disk")
	assert.JSONEq(t, `{"user":{"name":"Learner","points":0,"streak":0},"words":{}}`, string(data))
}

func TestStore_LoadCorruptFileRecovers(t *testing.T) {
	store, path, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	rec, outcome := store.Load(context.Background())

	assert.Equal(t, Recovered, outcome)
	assert.Equal(t, "Learner", rec.User.Name)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestStore_LoadExisting(t *testing.T) {
	store, path, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	doc := `{"user":{"name":"Kim","points":30,"streak":3},"words":{"lucid":{"seen":3,"correct":3,"incorrect":0,"interval":4,"next_review":"2024-05-14T09:30:00Z"}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	rec, outcome := store.Load(context.Background())

	assert.Equal(t, Loaded, outcome)
	assert.Equal(t, "Kim", rec.User.Name)
	assert.Equal(t, 4, rec.Words.Get("lucid").Interval)
}

func TestStore_MarkSeenKnownOnFreshStore(t *testing.T) {
	store, _, clock := newTestStore(t)

	rec, err := store.MarkSeen(context.Background(), "ephemeral", true)
	require.NoError(t, err)

	stat := rec.Words.Get("ephemeral")
	require.NotNil(t, stat)
	assert.Equal(t, 1, stat.Seen)
	assert.Equal(t, 1, stat.Correct)
	assert.Equal(t, 0, stat.Incorrect)
	assert.Equal(t, 1, stat.Interval)

	next, ok := stat.NextReviewTime()
	require.True(t, ok)
	assert.True(t, next.Equal(clock.Now().AddDate(0, 0, 1)))

	assert.Equal(t, 10, rec.User.Points)
	assert.Equal(t, 1, rec.User.Streak)

	// persisted
	reloaded, outcome := store.Load(context.Background())
	assert.Equal(t, Loaded, outcome)
	assert.Equal(t, 10, reloaded.User.Points)
	assert.Equal(t, 1, reloaded.Words.Get("ephemeral").Seen)
}

func TestStore_MarkSeenKnownDoublesInterval(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	var prev time.Time
	for i, want := range []int{1, 2, 4, 8, 16} {
		rec, err := store.MarkSeen(ctx, "lucid", true)
		require.NoError(t, err)

		stat := rec.Words.Get("lucid")
		assert.Equal(t, want, stat.Interval, "review %d", i+1)

		next, ok := stat.NextReviewTime()
		require.True(t, ok)
		if i > 0 {
			assert.True(t, next.After(prev), "next_review must move forward")
		}
		prev = next
		clock.Advance(time.Minute)
	}

	rec, _ := store.Load(ctx)
	assert.Equal(t, 50, rec.User.Points)
	assert.Equal(t, 5, rec.User.Streak)
}

func TestStore_MarkSeenUnknownResets(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.MarkSeen(ctx, "lucid", true)
		require.NoError(t, err)
	}

	rec, err := store.MarkSeen(ctx, "lucid", false)
	require.NoError(t, err)

	stat := rec.Words.Get("lucid")
	assert.Equal(t, 1, stat.Interval)
	assert.Equal(t, 1, stat.Incorrect)
	assert.Equal(t, 4, stat.Seen)
	assert.Equal(t, 0, rec.User.Streak)
	assert.Equal(t, 30, rec.User.Points, "points never decrease")

	// unknown on a brand new word
	rec, err = store.MarkSeen(ctx, "opaque", false)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Words.Get("opaque").Interval)
	assert.NotNil(t, rec.Words.Get("opaque").NextReview)
}

func TestStore_MarkSeenZeroIntervalBecomesOne(t *testing.T) {
	store, path, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	doc := `{"user":{"name":"Learner","points":0,"streak":0},"words":{"old":{"seen":0,"correct":0,"incorrect":0,"interval":0,"next_review":null}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	rec, err := store.MarkSeen(context.Background(), "old", true)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Words.Get("old").Interval)
}

func TestStore_DueWords(t *testing.T) {
	store, path, clock := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	doc := `{"user":{"name":"Learner","points":0,"streak":0},"words":{
		"never":{"seen":0,"correct":0,"incorrect":0,"interval":0,"next_review":null},
		"future":{"seen":1,"correct":1,"incorrect":0,"interval":1,"next_review":"2024-05-11T09:30:00Z"},
		"broken":{"seen":1,"correct":1,"incorrect":0,"interval":1,"next_review":"soon"},
		"past":{"seen":1,"correct":0,"incorrect":1,"interval":1,"next_review":"2024-05-09T09:30:00Z"},
		"now":{"seen":1,"correct":0,"incorrect":1,"interval":1,"next_review":"2024-05-10T09:30:00Z"}
	}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	due := store.DueWords(context.Background())
	assert.Equal(t, []string{"never", "broken", "past", "now"}, due)

	clock.Advance(48 * time.Hour)
	due = store.DueWords(context.Background())
	assert.Equal(t, []string{"never", "future", "broken", "past", "now"}, due)
}

func TestStore_DueWordsNeverInFuture(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	for _, w := range []string{"alpha", "beta", "gamma"} {
		_, err := store.MarkSeen(ctx, w, w != "beta")
		require.NoError(t, err)
	}

	assert.Empty(t, store.DueWords(ctx))

	clock.Advance(24 * time.Hour)
	due := store.DueWords(ctx)
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, due)

	rec, _ := store.Load(ctx)
	for _, w := range due {
		next, ok := rec.Words.Get(w).NextReviewTime()
		require.True(t, ok)
		assert.False(t, next.After(clock.Now()))
	}
}

func TestStore_SetName(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetName(ctx, "  Maria "))
	require.NoError(t, store.SetName(ctx, "   "))

	rec, _ := store.Load(ctx)
	assert.Equal(t, "Maria", rec.User.Name)
}

type failingStorage struct {
	data []byte
}

func (f *failingStorage) Read(context.Context) ([]byte, error) {
	if f.data == nil {
		return nil, ErrNoRecord
	}
	return f.data, nil
}

func (f *failingStorage) Write(context.Context, []byte) error {
	return errors.New("disk full")
}

func TestStore_SaveFailureStillReturnsRecord(t *testing.T) {
	store := New(&failingStorage{})

	rec, outcome := store.Load(context.Background())
	assert.Equal(t, Created, outcome)
	assert.Equal(t, "Learner", rec.User.Name)

	rec, err := store.MarkSeen(context.Background(), "ephemeral", true)
	require.Error(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 10, rec.User.Points)
}

// flakyStorage keeps the document in memory and fails the next readFailures reads
type flakyStorage struct {
	data         []byte
	readFailures int
	writes       int
}

func (f *flakyStorage) Read(context.Context) ([]byte, error) {
	if f.readFailures > 0 {
		f.readFailures--
		return nil, errors.New("bad connection")
	}
	if f.data == nil {
		return nil, ErrNoRecord
	}
	return f.data, nil
}

func (f *flakyStorage) Write(_ context.Context, data []byte) error {
	f.writes++
	f.data = append([]byte(nil), data...)
	return nil
}

func TestStore_ReadFailureKeepsStoredRecord(t *testing.T) {
	storage := &flakyStorage{}
	store := New(storage)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.MarkSeen(ctx, "lucid", true)
		require.NoError(t, err)
	}
	stored := string(storage.data)
	writes := storage.writes

	storage.readFailures = 1
	assert.Empty(t, store.DueWords(ctx))

	storage.readFailures = 1
	rec, outcome := store.Load(ctx)
	assert.Equal(t, Recovered, outcome)
	assert.Equal(t, "Learner", rec.User.Name)

	storage.readFailures = 1
	rec, err := store.MarkSeen(ctx, "lucid", false)
	require.Error(t, err)
	assert.Nil(t, rec)

	storage.readFailures = 1
	require.Error(t, store.SetName(ctx, "Kim"))

	assert.Equal(t, writes, storage.writes, "nothing is written after a failed read")
	assert.Equal(t, stored, string(storage.data))

	rec, outcome = store.Load(ctx)
	assert.Equal(t, Loaded, outcome)
	assert.Equal(t, 50, rec.User.Points)
	assert.Equal(t, 5, rec.User.Streak)
	assert.Equal(t, 16, rec.Words.Get("lucid").Interval)
}

func TestStore_LongKnownChainStaysScheduled(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()

	var rec *models.Record
	for i := 0; i < 30; i++ {
		var err error
		rec, err = store.MarkSeen(ctx, "w", true)
		require.NoError(t, err)
		require.Empty(t, store.DueWords(ctx), "review %d", i+1)
	}

	stat := rec.Words.Get("w")
	assert.Equal(t, 1<<29, stat.Interval, "interval is not capped")
	assert.Equal(t, "9999-12-31T23:59:59Z", *stat.NextReview)

	next, ok := stat.NextReviewTime()
	require.True(t, ok)
	assert.True(t, next.After(clock.Now()))
}
