package services

import (
	"time"

	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/common/validation"
	"github.com/architect/studyquest/internal/study/engine"
	"github.com/architect/studyquest/internal/study/models"
	"github.com/architect/studyquest/internal/study/repository"
	"github.com/google/uuid"
)

// GetDailyQuiz returns the user's open review plan, generating one from the
// ranker when none exists. Repeated calls return the same plan until it is
// completed.
func GetDailyQuiz(userID uint, limit int) (*models.DailyQuizResponse, error) {
	open, err := repository.GetOpenDailyQuiz(userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return dailyQuizResponse(open), nil
	}

	ledger, err := repository.ListTopicReviews(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ranked := engine.RankDue(ledger, now, limit)
	if len(ranked) == 0 {
		// Nothing due and nothing weak; don't persist an empty plan
		return &models.DailyQuizResponse{Items: []models.DailyQuizItem{}, GeneratedOn: now}, nil
	}

	items := make([]models.DailyQuizItem, 0, len(ranked))
	for _, rt := range ranked {
		items = append(items, models.DailyQuizItem{
			Topic:           rt.Record.Topic,
			SourceLectureID: rt.Record.SourceLectureID,
			PriorityScore:   rt.Priority,
			Reason:          rt.Reason,
		})
	}

	plan := &models.DailyQuiz{
		ID:          uuid.New().String(),
		UserID:      userID,
		GeneratedOn: now,
	}
	plan.SetItemList(items)

	if err := repository.CreateDailyQuiz(plan); err != nil {
		return nil, err
	}

	return dailyQuizResponse(plan), nil
}

// CompleteDailyQuiz finalizes the open plan with a score and maintains the
// daily-quiz counters and streak
func CompleteDailyQuiz(userID uint, req models.CompleteDailyQuizRequest) (*models.DailyQuizResponse, error) {
	if err := validation.ValidateScore(req.Score); err != nil {
		return nil, errors.Validation("invalid score", err.Error())
	}

	plan, err := repository.GetOpenDailyQuiz(userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, errors.NotFound("daily quiz")
	}

	now := time.Now()
	plan.Completed = true
	plan.CompletedOn = &now
	plan.Score = req.Score
	if err := repository.UpdateDailyQuiz(plan); err != nil {
		return nil, err
	}

	progress, err := repository.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	progress.DailyQuizzesDone++
	today := dateOf(now)
	switch {
	case progress.LastDailyQuizOn == nil:
		progress.ConsecutiveDaily = 1
	case dateOf(*progress.LastDailyQuizOn).Equal(today):
		// A second completion today doesn't extend the chain
	case dateOf(*progress.LastDailyQuizOn).AddDate(0, 0, 1).Equal(today):
		progress.ConsecutiveDaily++
	default:
		progress.ConsecutiveDaily = 1
	}
	progress.LastDailyQuizOn = &now

	// Daily-count achievements can unlock right here, not only on the next
	// regular quiz
	ctx := engine.EvaluationContext{
		TotalXP:            progress.TotalXP,
		Level:              progress.Level,
		QuizzesCompleted:   progress.QuizzesCompleted,
		PerfectScores:      progress.PerfectScores,
		CurrentStreak:      progress.CurrentStreak,
		LongestStreak:      progress.LongestStreak,
		ConsecutivePerfect: progress.ConsecutivePerfect,
		DailyQuizzesDone:   progress.DailyQuizzesDone,
		ConsecutiveDaily:   progress.ConsecutiveDaily,
		Hour:               now.Hour(),
		Weekday:            int(now.Weekday()),
		DayOfMonth:         now.Day(),
		MasteredTopics:     len(progress.MasteredList()),
	}
	_, achievementXP, err := evaluateAchievements(userID, ctx, now)
	if err != nil {
		return nil, err
	}
	if achievementXP > 0 {
		bonus := engine.AwardFlatXP(progress.TotalXP, achievementXP)
		progress.TotalXP = bonus.NewTotalXP
		progress.Level = bonus.NewLevel
		if bonus.LevelUps > 0 {
			levelUpAt := now
			progress.LastLevelUpAt = &levelUpAt
			progress.SecondChances += bonus.LevelUps
			progress.HintCharges += bonus.LevelUps
		}
	}

	if err := repository.UpdateProgress(progress); err != nil {
		return nil, err
	}

	return dailyQuizResponse(plan), nil
}

func dailyQuizResponse(plan *models.DailyQuiz) *models.DailyQuizResponse {
	items := plan.ItemList()
	if items == nil {
		items = []models.DailyQuizItem{}
	}
	return &models.DailyQuizResponse{
		ID:          plan.ID,
		Items:       items,
		GeneratedOn: plan.GeneratedOn,
		Completed:   plan.Completed,
		CompletedOn: plan.CompletedOn,
		Score:       plan.Score,
	}
}
