package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultUserName is the profile name of a freshly created record
const DefaultUserName = "Learner"

// naiveTimeLayout matches ISO timestamps written without a zone offset.
// Such values are treated as UTC.
const naiveTimeLayout = "2006-01-02T15:04:05.999999"

// User holds the learner profile stored in the progress record
type User struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Streak int    `json:"streak"`
}

// WordStat tracks review statistics for a single word
type WordStat struct {
	Seen       int     `json:"seen"`
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	Interval   int     `json:"interval"`    // Days until the next review
	NextReview *string `json:"next_review"` // RFC3339 timestamp, nil until the first review
}

// NextReviewTime parses NextReview. The second value is false when the
// timestamp is missing or cannot be parsed.
func (s *WordStat) NextReviewTime() (time.Time, bool) {
	if s.NextReview == nil || *s.NextReview == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, *s.NextReview); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(naiveTimeLayout, *s.NextReview, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MaxNextReview is the latest timestamp that can be stored. RFC3339 has
// four-digit years only.
var MaxNextReview = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// SetNextReview stores t as an RFC3339 UTC timestamp, clamped to MaxNextReview
func (s *WordStat) SetNextReview(t time.Time) {
	if t.After(MaxNextReview) {
		t = MaxNextReview
	}
	v := t.UTC().Format(time.RFC3339)
	s.NextReview = &v
}

// IsDue reports whether the word should be reviewed at now.
// Missing and unparsable timestamps count as due.
func (s *WordStat) IsDue(now time.Time) bool {
	t, ok := s.NextReviewTime()
	if !ok {
		return true
	}
	return !t.After(now)
}

// Record is the whole persisted learning state of the single user
type Record struct {
	User  User       `json:"user"`
	Words *WordStats `json:"words"`
}

// NewRecord returns the default record
func NewRecord() *Record {
	return &Record{
		User:  User{Name: DefaultUserName},
		Words: NewWordStats(),
	}
}

// Normalize fills fields a hand-edited or truncated document may lack
func (r *Record) Normalize() {
	if r.Words == nil {
		r.Words = NewWordStats()
	}
	if r.User.Name == "" {
		r.User.Name = DefaultUserName
	}
}

// WordStats is a word -> WordStat mapping that remembers insertion order.
// The order survives a JSON round trip, so due words come back in the
// order they were first studied.
type WordStats struct {
	keys  []string
	stats map[string]*WordStat
}

// NewWordStats creates an empty mapping
func NewWordStats() *WordStats {
	return &WordStats{stats: make(map[string]*WordStat)}
}

// Len returns the number of tracked words
func (w *WordStats) Len() int {
	if w == nil {
		return 0
	}
	return len(w.keys)
}

// Get returns the stat for word, or nil
func (w *WordStats) Get(word string) *WordStat {
	if w == nil {
		return nil
	}
	return w.stats[word]
}

// Has reports whether word is tracked
func (w *WordStats) Has(word string) bool {
	return w.Get(word) != nil
}

// GetOrCreate returns the stat for word, appending a zero stat if absent
func (w *WordStats) GetOrCreate(word string) *WordStat {
	if s, ok := w.stats[word]; ok {
		return s
	}
	s := &WordStat{}
	w.Set(word, s)
	return s
}

// Set stores stat under word, keeping the original position of an existing key
func (w *WordStats) Set(word string, stat *WordStat) {
	if w.stats == nil {
		w.stats = make(map[string]*WordStat)
	}
	if _, ok := w.stats[word]; !ok {
		w.keys = append(w.keys, word)
	}
	w.stats[word] = stat
}

// Keys returns the tracked words in insertion order
func (w *WordStats) Keys() []string {
	if w == nil {
		return nil
	}
	out := make([]string, len(w.keys))
	copy(out, w.keys)
	return out
}

// MarshalJSON writes the mapping as a JSON object in insertion order
func (w *WordStats) MarshalJSON() ([]byte, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range w.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(w.stats[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document
func (w *WordStats) UnmarshalJSON(data []byte) error {
	w.keys = nil
	w.stats = make(map[string]*WordStat)

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("words: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("words: expected string key, got %v", tok)
		}
		stat := &WordStat{}
		if err := dec.Decode(stat); err != nil {
			return fmt.Errorf("words: decode %q: %w", key, err)
		}
		w.Set(key, stat)
	}

	// Закрывающая скобка объекта
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
