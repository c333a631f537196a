package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordStats_KeepsDocumentOrder(t *testing.T) {
	doc := `{"user":{"name":"Ann","points":20,"streak":2},"words":{
		"zephyr":{"seen":1,"correct":1,"incorrect":0,"interval":1,"next_review":null},
		"apple":{"seen":2,"correct":1,"incorrect":1,"interval":1,"next_review":"2024-01-01T00:00:00Z"},
		"mango":{"seen":1,"correct":0,"incorrect":1,"interval":1,"next_review":"2024-01-02T10:00:00.123456"}
	}}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(doc), &rec))
	assert.Equal(t, []string{"zephyr", "apple", "mango"}, rec.Words.Keys())

	out, err := json.Marshal(&rec)
	require.NoError(t, err)

	var again Record
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, []string{"zephyr", "apple", "mango"}, again.Words.Keys())
	assert.Nil(t, again.Words.Get("zephyr").NextReview)
	assert.Equal(t, 20, again.User.Points)
}

func TestWordStats_SetKeepsPosition(t *testing.T) {
	ws := NewWordStats()
	ws.Set("b", &WordStat{Seen: 1})
	ws.Set("a", &WordStat{Seen: 1})
	ws.Set("b", &WordStat{Seen: 5})

	assert.Equal(t, []string{"b", "a"}, ws.Keys())
	assert.Equal(t, 5, ws.Get("b").Seen)
	assert.Equal(t, 2, ws.Len())
}

func TestWordStat_NextReviewTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   *string
		wantOK  bool
		wantDue bool
	}{
		{name: "nil", value: nil, wantOK: false, wantDue: true},
		{name: "empty", value: strPtr(""), wantOK: false, wantDue: true},
		{name: "garbage", value: strPtr("next tuesday"), wantOK: false, wantDue: true},
		{name: "rfc3339 past", value: strPtr("2024-02-28T12:00:00Z"), wantOK: true, wantDue: true},
		{name: "rfc3339 exact", value: strPtr("2024-03-01T12:00:00Z"), wantOK: true, wantDue: true},
		{name: "rfc3339 future", value: strPtr("2024-03-02T12:00:00Z"), wantOK: true, wantDue: false},
		{name: "naive future", value: strPtr("2024-03-01T13:00:00.500000"), wantOK: true, wantDue: false},
		{name: "naive past", value: strPtr("2024-03-01T11:59:59"), wantOK: true, wantDue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := WordStat{NextReview: tt.value}
			_, ok := s.NextReviewTime()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDue, s.IsDue(now))
		})
	}
}

func TestWordStat_SetNextReviewClampsFarFuture(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var s WordStat

	s.SetNextReview(now.AddDate(0, 0, 1<<22))
	assert.Equal(t, "9999-12-31T23:59:59Z", *s.NextReview)

	next, ok := s.NextReviewTime()
	require.True(t, ok)
	assert.True(t, next.Equal(MaxNextReview))
	assert.False(t, s.IsDue(now))

	s.SetNextReview(now.AddDate(0, 0, 4))
	assert.Equal(t, "2024-03-05T12:00:00Z", *s.NextReview)
}

func TestRecord_Normalize(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"words":null}`), &rec))
	rec.Normalize()

	assert.Equal(t, DefaultUserName, rec.User.Name)
	require.NotNil(t, rec.Words)
	assert.Equal(t, 0, rec.Words.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelEasy, ParseLevel(" Easy "))
	assert.Equal(t, LevelHard, ParseLevel("hard"))
	assert.Equal(t, LevelMedium, ParseLevel("medium"))
	assert.Equal(t, LevelMedium, ParseLevel("impossible"))
}

func strPtr(s string) *string { return &s }
