// Package spaced_repetition implements the review schedule: a word answered
// correctly waits twice as long as last time, a missed word comes back the
// next day.
package spaced_repetition

import (
	"time"

	"github.com/example/vocabot/pkg/models"
)

// Review applies one review result to stat and schedules the next one
// interval days after now. It returns the new interval.
func Review(stat *models.WordStat, known bool, now time.Time) int {
	stat.Seen++

	if known {
		stat.Correct++
		stat.Interval = NextInterval(stat.Interval)
	} else {
		stat.Incorrect++
		stat.Interval = 1
	}

	stat.SetNextReview(now.AddDate(0, 0, stat.Interval))
	return stat.Interval
}

// NextInterval doubles interval, starting from one day
func NextInterval(interval int) int {
	return max(1, interval*2)
}

// DueWords returns the words of stats due at now, in insertion order
func DueWords(stats *models.WordStats, now time.Time) []string {
	due := make([]string, 0, stats.Len())
	for _, w := range stats.Keys() {
		if stats.Get(w).IsDue(now) {
			due = append(due, w)
		}
	}
	return due
}
