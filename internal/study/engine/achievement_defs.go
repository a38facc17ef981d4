package engine

import (
	"github.com/architect/studyquest/internal/study/models"
)

// Achievement categories
const (
	CategoryMilestones  = "milestones"
	CategoryStreaks     = "streaks"
	CategoryTiming      = "timing"
	CategoryImprovement = "improvement"
	CategoryMastery     = "mastery"
	CategorySocial      = "social"
)

// Definitions returns the static achievement catalog, seeded into the
// database at startup. Keys are stable identifiers; per-user state is
// stored separately and joined at read time.
func Definitions() []models.Achievement {
	return []models.Achievement{
		// Milestones: lectures
		{Key: "first_lecture", Name: "First Steps", Description: "Upload your first lecture", Category: CategoryMilestones, XPReward: 25, MaxProgress: 1},
		{Key: "lectures_5", Name: "Getting Organized", Description: "Upload 5 lectures", Category: CategoryMilestones, XPReward: 50, MaxProgress: 5},
		{Key: "lectures_10", Name: "Curriculum Builder", Description: "Upload 10 lectures", Category: CategoryMilestones, XPReward: 100, MaxProgress: 10},
		{Key: "lectures_25", Name: "Archivist", Description: "Upload 25 lectures", Category: CategoryMilestones, XPReward: 200, MaxProgress: 25},

		// Milestones: quizzes
		{Key: "first_quiz", Name: "Quiz Rookie", Description: "Complete your first quiz", Category: CategoryMilestones, XPReward: 25, MaxProgress: 1},
		{Key: "quizzes_10", Name: "Quiz Regular", Description: "Complete 10 quizzes", Category: CategoryMilestones, XPReward: 75, MaxProgress: 10},
		{Key: "quizzes_25", Name: "Quiz Veteran", Description: "Complete 25 quizzes", Category: CategoryMilestones, XPReward: 150, MaxProgress: 25},
		{Key: "quizzes_50", Name: "Quiz Machine", Description: "Complete 50 quizzes", Category: CategoryMilestones, XPReward: 250, MaxProgress: 50},
		{Key: "quizzes_100", Name: "Centurion", Description: "Complete 100 quizzes", Category: CategoryMilestones, XPReward: 500, MaxProgress: 100},

		// Milestones: perfect scores
		{Key: "first_perfect", Name: "Flawless", Description: "Score 100% on a quiz", Category: CategoryMilestones, XPReward: 50, MaxProgress: 1},
		{Key: "perfect_10", Name: "Perfectionist", Description: "Score 100% on 10 quizzes", Category: CategoryMilestones, XPReward: 150, MaxProgress: 10},
		{Key: "perfect_25", Name: "Untouchable", Description: "Score 100% on 25 quizzes", Category: CategoryMilestones, XPReward: 300, MaxProgress: 25},

		// Milestones: XP and level
		{Key: "xp_1000", Name: "Rising Scholar", Description: "Earn 1,000 total XP", Category: CategoryMilestones, XPReward: 50, MaxProgress: 1000},
		{Key: "xp_5000", Name: "Dedicated Scholar", Description: "Earn 5,000 total XP", Category: CategoryMilestones, XPReward: 150, MaxProgress: 5000},
		{Key: "xp_10000", Name: "Master Scholar", Description: "Earn 10,000 total XP", Category: CategoryMilestones, XPReward: 300, MaxProgress: 10000},
		{Key: "xp_25000", Name: "Legend", Description: "Earn 25,000 total XP", Category: CategoryMilestones, XPReward: 500, MaxProgress: 25000},
		{Key: "level_5", Name: "Level 5", Description: "Reach level 5", Category: CategoryMilestones, XPReward: 100, MaxProgress: 5},
		{Key: "level_10", Name: "Level 10", Description: "Reach level 10", Category: CategoryMilestones, XPReward: 250, MaxProgress: 10},
		{Key: "level_20", Name: "Level 20", Description: "Reach level 20", Category: CategoryMilestones, XPReward: 500, MaxProgress: 20},

		// Streaks: study days
		{Key: "streak_3", Name: "Warming Up", Description: "Study 3 days in a row", Category: CategoryStreaks, XPReward: 50, MaxProgress: 3},
		{Key: "streak_7", Name: "Week Warrior", Description: "Study 7 days in a row", Category: CategoryStreaks, XPReward: 100, MaxProgress: 7},
		{Key: "streak_14", Name: "Fortnight Fighter", Description: "Study 14 days in a row", Category: CategoryStreaks, XPReward: 200, MaxProgress: 14},
		{Key: "streak_30", Name: "Monthly Master", Description: "Study 30 days in a row", Category: CategoryStreaks, XPReward: 500, MaxProgress: 30},
		{Key: "streak_100", Name: "Unstoppable", Description: "Study 100 days in a row", Category: CategoryStreaks, XPReward: 1000, MaxProgress: 100},

		// Streaks: consecutive perfect scores
		{Key: "perfect_streak_3", Name: "Hat Trick", Description: "Score 100% on 3 quizzes in a row", Category: CategoryStreaks, XPReward: 150, MaxProgress: 3},
		{Key: "perfect_streak_5", Name: "Hot Hand", Description: "Score 100% on 5 quizzes in a row", Category: CategoryStreaks, XPReward: 300, MaxProgress: 5},

		// Streaks: daily review quizzes
		{Key: "first_daily", Name: "Daily Duty", Description: "Complete your first daily quiz", Category: CategoryStreaks, XPReward: 25, MaxProgress: 1},
		{Key: "daily_7", Name: "Review Routine", Description: "Complete 7 daily quizzes in a row", Category: CategoryStreaks, XPReward: 150, MaxProgress: 7},
		{Key: "daily_30", Name: "Review Ritual", Description: "Complete 30 daily quizzes in a row", Category: CategoryStreaks, XPReward: 500, MaxProgress: 30},

		// Timing
		{Key: "early_bird", Name: "Early Bird", Description: "Complete a quiz before 7am", Category: CategoryTiming, XPReward: 50, MaxProgress: 1},
		{Key: "night_owl", Name: "Night Owl", Description: "Complete a quiz after 11pm", Category: CategoryTiming, XPReward: 50, MaxProgress: 1},
		{Key: "lunch_learner", Name: "Lunch Learner", Description: "Complete a quiz over lunch", Category: CategoryTiming, XPReward: 25, MaxProgress: 1},
		{Key: "weekend_warrior", Name: "Weekend Warrior", Description: "Study on a weekend", Category: CategoryTiming, XPReward: 50, MaxProgress: 1},
		{Key: "monday_motivation", Name: "Monday Motivation", Description: "Study on a Monday", Category: CategoryTiming, XPReward: 25, MaxProgress: 1},
		{Key: "fresh_start", Name: "Fresh Start", Description: "Study on the first day of a month", Category: CategoryTiming, XPReward: 25, MaxProgress: 1},

		// Improvement
		{Key: "improvement_10", Name: "On the Rise", Description: "Improve a quiz score by 10 points", Category: CategoryImprovement, XPReward: 50, MaxProgress: 1},
		{Key: "improvement_25", Name: "Breakthrough", Description: "Improve a quiz score by 25 points", Category: CategoryImprovement, XPReward: 100, MaxProgress: 1},
		{Key: "comeback_80", Name: "Comeback", Description: "Recover from below 50% to 80% or better", Category: CategoryImprovement, XPReward: 100, MaxProgress: 1},
		{Key: "comeback_100", Name: "Phoenix", Description: "Recover from below 50% to a perfect score", Category: CategoryImprovement, XPReward: 250, MaxProgress: 1},

		// Mastery
		{Key: "mastered_1", Name: "First Mastery", Description: "Master your first topic", Category: CategoryMastery, XPReward: 50, MaxProgress: 1},
		{Key: "mastered_5", Name: "Subject Strength", Description: "Master 5 topics", Category: CategoryMastery, XPReward: 150, MaxProgress: 5},
		{Key: "mastered_10", Name: "Domain Expert", Description: "Master 10 topics", Category: CategoryMastery, XPReward: 300, MaxProgress: 10},
		{Key: "mastered_25", Name: "Polymath", Description: "Master 25 topics", Category: CategoryMastery, XPReward: 600, MaxProgress: 25},

		// Social and power-ups (session-supplied flags)
		{Key: "social_share", Name: "Show and Tell", Description: "Share a quiz result", Category: CategorySocial, XPReward: 25, MaxProgress: 1},
		{Key: "study_buddy", Name: "Study Buddy", Description: "Study together with a peer", Category: CategorySocial, XPReward: 50, MaxProgress: 1},
		{Key: "second_wind", Name: "Second Wind", Description: "Use a second chance on a quiz", Category: CategorySocial, XPReward: 25, MaxProgress: 1},
		{Key: "hint_taken", Name: "A Little Help", Description: "Use a hint on a quiz", Category: CategorySocial, XPReward: 10, MaxProgress: 1},
		{Key: "double_down", Name: "Double Down", Description: "Complete a quiz with double XP active", Category: CategorySocial, XPReward: 50, MaxProgress: 1},
	}
}

// rules maps achievement keys to their unlock predicates and progress
// functions. A definition without an entry here is silently skipped by the
// evaluator.
var rules = map[string]Rule{
	// Milestones: lectures
	"first_lecture": threshold(1, func(c EvaluationContext) int { return c.LecturesUploaded }),
	"lectures_5":    threshold(5, func(c EvaluationContext) int { return c.LecturesUploaded }),
	"lectures_10":   threshold(10, func(c EvaluationContext) int { return c.LecturesUploaded }),
	"lectures_25":   threshold(25, func(c EvaluationContext) int { return c.LecturesUploaded }),

	// Milestones: quizzes
	"first_quiz":  threshold(1, func(c EvaluationContext) int { return c.QuizzesCompleted }),
	"quizzes_10":  threshold(10, func(c EvaluationContext) int { return c.QuizzesCompleted }),
	"quizzes_25":  threshold(25, func(c EvaluationContext) int { return c.QuizzesCompleted }),
	"quizzes_50":  threshold(50, func(c EvaluationContext) int { return c.QuizzesCompleted }),
	"quizzes_100": threshold(100, func(c EvaluationContext) int { return c.QuizzesCompleted }),

	// Milestones: perfect scores
	"first_perfect": threshold(1, func(c EvaluationContext) int { return c.PerfectScores }),
	"perfect_10":    threshold(10, func(c EvaluationContext) int { return c.PerfectScores }),
	"perfect_25":    threshold(25, func(c EvaluationContext) int { return c.PerfectScores }),

	// Milestones: XP and level
	"xp_1000":  threshold(1000, func(c EvaluationContext) int { return c.TotalXP }),
	"xp_5000":  threshold(5000, func(c EvaluationContext) int { return c.TotalXP }),
	"xp_10000": threshold(10000, func(c EvaluationContext) int { return c.TotalXP }),
	"xp_25000": threshold(25000, func(c EvaluationContext) int { return c.TotalXP }),
	"level_5":  threshold(5, func(c EvaluationContext) int { return c.Level }),
	"level_10": threshold(10, func(c EvaluationContext) int { return c.Level }),
	"level_20": threshold(20, func(c EvaluationContext) int { return c.Level }),

	// Streaks: study days
	"streak_3":   threshold(3, func(c EvaluationContext) int { return c.CurrentStreak }),
	"streak_7":   threshold(7, func(c EvaluationContext) int { return c.CurrentStreak }),
	"streak_14":  threshold(14, func(c EvaluationContext) int { return c.CurrentStreak }),
	"streak_30":  threshold(30, func(c EvaluationContext) int { return c.CurrentStreak }),
	"streak_100": threshold(100, func(c EvaluationContext) int { return c.CurrentStreak }),

	// Streaks: consecutive perfect scores
	"perfect_streak_3": threshold(3, func(c EvaluationContext) int { return c.ConsecutivePerfect }),
	"perfect_streak_5": threshold(5, func(c EvaluationContext) int { return c.ConsecutivePerfect }),

	// Streaks: daily review quizzes
	"first_daily": threshold(1, func(c EvaluationContext) int { return c.DailyQuizzesDone }),
	"daily_7":     threshold(7, func(c EvaluationContext) int { return c.ConsecutiveDaily }),
	"daily_30":    threshold(30, func(c EvaluationContext) int { return c.ConsecutiveDaily }),

	// Timing
	"early_bird":        event(func(c EvaluationContext) bool { return c.QuizzesCompleted > 0 && c.Hour < 7 }),
	"night_owl":         event(func(c EvaluationContext) bool { return c.QuizzesCompleted > 0 && c.Hour >= 23 }),
	"lunch_learner":     event(func(c EvaluationContext) bool { return c.QuizzesCompleted > 0 && c.Hour >= 12 && c.Hour < 14 }),
	"weekend_warrior":   event(func(c EvaluationContext) bool { return c.QuizzesCompleted > 0 && (c.Weekday == 0 || c.Weekday == 6) }),
	"monday_motivation": event(func(c EvaluationContext) bool { return c.QuizzesCompleted > 0 && c.Weekday == 1 }),
	"fresh_start":       event(func(c EvaluationContext) bool { return c.QuizzesCompleted > 0 && c.DayOfMonth == 1 }),

	// Improvement
	"improvement_10": event(func(c EvaluationContext) bool { return c.ScoreDelta >= 10 }),
	"improvement_25": event(func(c EvaluationContext) bool { return c.ScoreDelta >= 25 }),
	"comeback_80":    event(func(c EvaluationContext) bool { return c.ComebackTo >= 80 }),
	"comeback_100":   event(func(c EvaluationContext) bool { return c.ComebackTo >= 100 }),

	// Mastery
	"mastered_1":  threshold(1, func(c EvaluationContext) int { return c.MasteredTopics }),
	"mastered_5":  threshold(5, func(c EvaluationContext) int { return c.MasteredTopics }),
	"mastered_10": threshold(10, func(c EvaluationContext) int { return c.MasteredTopics }),
	"mastered_25": threshold(25, func(c EvaluationContext) int { return c.MasteredTopics }),

	// Social and power-ups
	"social_share": event(func(c EvaluationContext) bool { return c.SharedResult }),
	"study_buddy":  event(func(c EvaluationContext) bool { return c.StudiedWithPeer }),
	"second_wind":  event(func(c EvaluationContext) bool { return c.UsedSecondChance }),
	"hint_taken":   event(func(c EvaluationContext) bool { return c.UsedHint }),
	"double_down":  event(func(c EvaluationContext) bool { return c.DoubleXPWasActive }),
}
