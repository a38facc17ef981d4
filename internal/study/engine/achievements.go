package engine

import (
	"time"

	"github.com/architect/studyquest/internal/study/models"
)

// Rule pairs an unlock predicate with a progress function. Both run against
// the normalized EvaluationContext only, which keeps every rule independently
// testable and free of hidden state.
type Rule struct {
	Check    func(EvaluationContext) bool
	Progress func(EvaluationContext) int
}

// EvaluationResult carries the state deltas of one evaluator pass. The
// caller applies and persists them; the evaluator itself mutates nothing.
type EvaluationResult struct {
	// Updated holds every per-user state row that changed this pass
	Updated []models.UserAchievement
	// NewlyUnlocked holds the definitions that unlocked this pass, in
	// definition order
	NewlyUnlocked []models.Achievement
	// XPReward is the summed XP of the newly unlocked achievements
	XPReward int
}

// Evaluate runs every achievement definition against the context.
// Already-unlocked achievements are skipped entirely, so repeated calls with
// identical inputs unlock nothing new and never rewind state. Definitions
// without a registered rule are ignored.
func Evaluate(defs []models.Achievement, states map[string]models.UserAchievement, ctx EvaluationContext, today time.Time) EvaluationResult {
	var result EvaluationResult

	for _, def := range defs {
		rule, ok := rules[def.Key]
		if !ok {
			// Unknown identifier: no-op, never an error
			continue
		}

		state, exists := states[def.Key]
		if !exists {
			state = models.UserAchievement{AchievementKey: def.Key}
		}
		if state.Unlocked {
			continue
		}

		progress := clampProgress(rule.Progress(ctx), def.MaxProgress)
		changed := progress != state.Progress
		state.Progress = progress

		if rule.Check(ctx) {
			unlockedOn := today
			state.Unlocked = true
			state.UnlockedOn = &unlockedOn
			if state.Progress < def.MaxProgress {
				state.Progress = def.MaxProgress
			}
			result.NewlyUnlocked = append(result.NewlyUnlocked, def)
			result.XPReward += def.XPReward
			changed = true
		}

		if changed || !exists {
			result.Updated = append(result.Updated, state)
		}
	}

	return result
}

func clampProgress(progress, max int) int {
	if progress < 0 {
		return 0
	}
	if max > 0 && progress > max {
		return max
	}
	return progress
}

// threshold builds the common count-reaches-N rule
func threshold(n int, value func(EvaluationContext) int) Rule {
	return Rule{
		Check:    func(ctx EvaluationContext) bool { return value(ctx) >= n },
		Progress: value,
	}
}

// event builds a rule for one-shot session conditions with no meaningful
// partial progress
func event(check func(EvaluationContext) bool) Rule {
	return Rule{
		Check: check,
		Progress: func(ctx EvaluationContext) int {
			if check(ctx) {
				return 1
			}
			return 0
		},
	}
}
