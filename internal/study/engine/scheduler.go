// Package engine implements the progression and spaced-repetition engine:
// review scheduling, daily-quiz priority ranking, XP/level math and
// achievement evaluation. Everything here is a pure function of its inputs
// plus an explicit "today" value; persistence belongs to the caller.
package engine

import (
	"math"
	"time"

	"github.com/architect/studyquest/internal/study/models"
)

const (
	// InitialEase is the SM-2 starting ease factor for a new topic
	InitialEase = 2.5
	// MinEase is the SM-2 floor; ease never drops below this
	MinEase = 1.3
	// PassScore is the minimum percentage counted as a successful review
	PassScore = 70
)

// intervalLadder holds base review intervals in days, indexed by topic streak
var intervalLadder = []int{1, 3, 7, 14, 30, 60, 90}

// Schedule computes the updated ledger record for a topic after a scored
// review. existing may be nil for the first review of a topic; identity
// fields (UserID, Topic, provenance) are preserved from existing and left
// zero otherwise for the caller to fill in.
func Schedule(existing *models.TopicReview, score int, today time.Time) models.TopicReview {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	rec := models.TopicReview{
		EaseFactor:   InitialEase,
		IntervalDays: 0,
		Streak:       0,
	}
	if existing != nil {
		rec = *existing
	}

	// Map the percentage to SM-2 quality (0-5). Kept fractional: a 90%
	// score is quality 4.5, not 5, so ease growth tracks the score smoothly
	// and the failure cutoff (quality < 3) lands exactly at score 60.
	q := float64(score) / 100 * 5

	// SM-2 ease update: EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
	ease := rec.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < MinEase {
		ease = MinEase
	}

	streak := rec.Streak
	if score >= PassScore {
		streak++
	} else {
		streak = 0
	}

	var interval int
	switch {
	case q < 3:
		// Failed review resets to the beginning regardless of prior streak
		interval = 1
	case streak == 0:
		interval = 1
	case streak == 1:
		interval = 3
	default:
		idx := streak
		if idx > len(intervalLadder)-1 {
			idx = len(intervalLadder) - 1
		}
		interval = int(math.Round(float64(intervalLadder[idx]) * ease))
	}
	if interval < 1 {
		interval = 1
	}

	rec.EaseFactor = ease
	rec.Streak = streak
	rec.IntervalDays = interval
	rec.LastScore = score
	rec.LastReviewedOn = today
	// Due dates are calendar dates: the review becomes due at the start of
	// that day, regardless of the time this one happened
	rec.NextDueOn = startOfDay(today).AddDate(0, 0, interval)
	rec.ReviewCount++

	return rec
}
