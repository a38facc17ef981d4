package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/architect/studyquest/internal/study/models"
)

// DefaultDailyQuizLimit caps the daily review quiz when no limit is given
const DefaultDailyQuizLimit = 10

// RankedTopic is one ledger record with its computed review priority
type RankedTopic struct {
	Record   models.TopicReview
	Priority float64
	Reason   string
}

// RankDue scores every ledger record and returns the topics to review next,
// highest priority first. Overdue and due topics are always candidates; a
// not-yet-due topic is included when its priority exceeds 50, which catches
// weak topics before they lapse. The sort is stable so ties keep ledger
// order and repeated calls return identical lists.
func RankDue(ledger []models.TopicReview, today time.Time, limit int) []RankedTopic {
	if limit <= 0 {
		limit = DefaultDailyQuizLimit
	}

	var candidates []RankedTopic
	for _, rec := range ledger {
		daysOverdue := DaysBetween(rec.NextDueOn, today)
		priority, reason := priorityFor(rec, daysOverdue)

		if daysOverdue >= 0 || priority > 50 {
			candidates = append(candidates, RankedTopic{
				Record:   rec,
				Priority: priority,
				Reason:   reason,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// priorityFor combines overdue-ness, recent weakness, difficulty and streak
// into one urgency score (higher = more urgent)
func priorityFor(rec models.TopicReview, daysOverdue int) (float64, string) {
	var priority float64
	reason := "weak topic, reinforcing early"

	if daysOverdue > 0 {
		priority += 100 + float64(daysOverdue)*10
		reason = fmt.Sprintf("overdue by %d days", daysOverdue)
		if daysOverdue == 1 {
			reason = "overdue by 1 day"
		}
	} else if daysOverdue == 0 {
		priority += 80
		reason = "due today"
	}

	priority += math.Max(0, 50-float64(rec.LastScore)/2)
	priority += math.Max(0, (InitialEase-rec.EaseFactor)*20)
	priority += math.Max(0, float64(5-rec.Streak)*5)

	return priority, reason
}

// DaysBetween returns the number of calendar days from due until today
// (negative when due is still in the future). Due dates are calendar dates:
// both sides are truncated to midnight, so a topic scheduled late in the
// evening still counts as due for the whole of that day.
func DaysBetween(due, today time.Time) int {
	return int(math.Round(startOfDay(today).Sub(startOfDay(due)).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
