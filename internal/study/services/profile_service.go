package services

import (
	"time"

	"github.com/architect/studyquest/internal/study/engine"
	"github.com/architect/studyquest/internal/study/models"
	"github.com/architect/studyquest/internal/study/repository"
)

// GetProgress retrieves the user's progression snapshot, creating the default
// profile on first use
func GetProgress(userID uint) (*models.ProgressResponse, error) {
	progress, err := repository.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	mastered := progress.MasteredList()
	if mastered == nil {
		mastered = []string{}
	}
	needsPractice := progress.NeedsPracticeList()
	if needsPractice == nil {
		needsPractice = []string{}
	}

	return &models.ProgressResponse{
		UserID:         progress.UserID,
		Level:          progress.Level,
		TotalXP:        progress.TotalXP,
		XPForNextLevel: engine.XPThresholdForLevel(progress.Level + 1),
		CurrentStreak:  progress.CurrentStreak,
		LongestStreak:  progress.LongestStreak,
		MasteredTopics: mastered,
		NeedsPractice:  needsPractice,
		SecondChances:  progress.SecondChances,
		HintCharges:    progress.HintCharges,
		DoubleXPActive: progress.DoubleXPActive,
	}, nil
}

// GetTopics retrieves the user's review ledger with due annotations
func GetTopics(userID uint) ([]models.TopicStatusResponse, error) {
	ledger, err := repository.ListTopicReviews(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	topics := make([]models.TopicStatusResponse, 0, len(ledger))
	for _, rec := range ledger {
		daysOverdue := engine.DaysBetween(rec.NextDueOn, now)
		status := models.TopicStatusResponse{
			Topic:        rec.Topic,
			LastScore:    rec.LastScore,
			ReviewCount:  rec.ReviewCount,
			EaseFactor:   rec.EaseFactor,
			IntervalDays: rec.IntervalDays,
			NextDueOn:    rec.NextDueOn,
			Streak:       rec.Streak,
			Due:          daysOverdue >= 0,
		}
		if daysOverdue > 0 {
			status.DaysOverdue = daysOverdue
		}
		topics = append(topics, status)
	}

	return topics, nil
}

// GetAchievements retrieves all achievement definitions joined with the
// user's unlock state
func GetAchievements(userID uint) ([]models.AchievementResponse, error) {
	defs, err := repository.ListAchievements()
	if err != nil {
		return nil, err
	}
	states, err := repository.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	achievements := make([]models.AchievementResponse, 0, len(defs))
	for _, def := range defs {
		resp := models.AchievementResponse{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			XPReward:    def.XPReward,
			MaxProgress: def.MaxProgress,
		}
		if state, ok := states[def.Key]; ok {
			resp.Unlocked = state.Unlocked
			resp.UnlockedOn = state.UnlockedOn
			resp.Progress = state.Progress
		}
		achievements = append(achievements, resp)
	}

	return achievements, nil
}

// ResetProgress wipes the user's study state: ledger, history, achievements,
// plans and the profile row. This is the only non-monotonic path.
func ResetProgress(userID uint) error {
	if err := repository.DeleteTopicReviews(userID); err != nil {
		return err
	}
	if err := repository.DeleteQuizResults(userID); err != nil {
		return err
	}
	if err := repository.DeleteUserAchievements(userID); err != nil {
		return err
	}
	if err := repository.DeleteDailyQuizzes(userID); err != nil {
		return err
	}

	progress, err := repository.GetProgress(userID)
	if err != nil {
		return err
	}
	if progress == nil {
		return nil
	}

	progress.Level = 1
	progress.TotalXP = 0
	progress.CurrentStreak = 0
	progress.LongestStreak = 0
	progress.LastStudyDate = time.Time{}
	progress.SetMasteredList(nil)
	progress.SetNeedsPracticeList(nil)
	progress.SecondChances = 0
	progress.HintCharges = 0
	progress.DoubleXPActive = false
	progress.QuizzesCompleted = 0
	progress.PerfectScores = 0
	progress.ConsecutivePerfect = 0
	progress.DailyQuizzesDone = 0
	progress.ConsecutiveDaily = 0
	progress.LastDailyQuizOn = nil
	progress.LastLevelUpAt = nil

	return repository.UpdateProgress(progress)
}

// GetLeaderboard retrieves the top profiles by total XP
func GetLeaderboard(limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := repository.GetLeaderboard(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, models.LeaderboardEntry{
			UserID:  row.UserID,
			Level:   row.Level,
			TotalXP: row.TotalXP,
			Rank:    i + 1,
		})
	}

	return entries, nil
}
