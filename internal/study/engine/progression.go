package engine

import (
	"math"
)

// XP formula constants
const (
	baseQuizXP        = 50
	xpPerCorrect      = 10
	perfectBonusXP    = 50
	xpPerConfidence   = 5
	improvementXP     = 20
	xpPerStreakDay    = 5
	weekStreakDays    = 7
	monthStreakDays   = 30
	weekMultiplier    = 1.5
	monthMultiplier   = 2.0
	doubleXPMultipler = 2.0
)

// LevelForXP derives the level from total XP: max(1, floor(sqrt(xp/100))).
// Level is always recomputed from XP, never stored independently.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	level := int(math.Floor(math.Sqrt(float64(totalXP) / 100)))
	if level < 1 {
		return 1
	}
	return level
}

// XPThresholdForLevel returns the total XP at which a level begins (L² × 100)
func XPThresholdForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * level * 100
}

// QuizXPInput carries everything the XP formula needs for one quiz
type QuizXPInput struct {
	CorrectCount     int
	TotalQuestions   int
	ConfidenceRating int // 0-5, 0 when not supplied
	IsImprovement    bool
	CurrentStreak    int // consecutive study days
	DoubleXPActive   bool
}

// XPAward is the result of applying an XP delta to a running total
type XPAward struct {
	XPAwarded  int
	NewTotalXP int
	OldLevel   int
	NewLevel   int
	LevelUps   int
}

// AwardQuizXP computes the XP for a completed quiz and applies it to the
// prior total. The streak multiplier and the double-XP multiplier apply
// sequentially to the additive total, in that order.
func AwardQuizXP(totalXP int, in QuizXPInput) XPAward {
	correct := in.CorrectCount
	if correct < 0 {
		correct = 0
	}
	confidence := in.ConfidenceRating
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 5 {
		confidence = 5
	}
	streak := in.CurrentStreak
	if streak < 0 {
		streak = 0
	}

	isPerfect := in.TotalQuestions > 0 && correct >= in.TotalQuestions

	xp := float64(baseQuizXP + correct*xpPerCorrect + confidence*xpPerConfidence + streak*xpPerStreakDay)
	if isPerfect {
		xp += perfectBonusXP
	}
	if in.IsImprovement {
		xp += improvementXP
	}

	if streak >= monthStreakDays {
		xp *= monthMultiplier
	} else if streak >= weekStreakDays {
		xp *= weekMultiplier
	}
	if in.DoubleXPActive {
		xp *= doubleXPMultipler
	}

	return applyXP(totalXP, int(math.Floor(xp)))
}

// AwardConfidenceXP is the small standalone award at confidence-submission
// time (rating × 5), decoupled from quiz scoring.
func AwardConfidenceXP(totalXP int, rating int) XPAward {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return applyXP(totalXP, rating*xpPerConfidence)
}

// AwardFlatXP applies a fixed delta (achievement rewards)
func AwardFlatXP(totalXP int, delta int) XPAward {
	if delta < 0 {
		delta = 0
	}
	return applyXP(totalXP, delta)
}

func applyXP(totalXP, delta int) XPAward {
	if totalXP < 0 {
		totalXP = 0
	}
	oldLevel := LevelForXP(totalXP)
	newTotal := totalXP + delta
	newLevel := LevelForXP(newTotal)

	levelUps := newLevel - oldLevel
	if levelUps < 0 {
		levelUps = 0
	}

	return XPAward{
		XPAwarded:  delta,
		NewTotalXP: newTotal,
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		LevelUps:   levelUps,
	}
}
