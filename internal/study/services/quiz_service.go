package services

import (
	"encoding/json"
	"time"

	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/common/validation"
	"github.com/architect/studyquest/internal/study/engine"
	"github.com/architect/studyquest/internal/study/models"
	"github.com/architect/studyquest/internal/study/repository"
)

const (
	// MasteryScore moves a topic into the mastered set
	MasteryScore = 90
	// PracticeScore flags a topic for extra practice
	PracticeScore = 70
	// ComebackFloor marks a prior attempt low enough to count a later
	// result as a comeback
	ComebackFloor = 50
)

// RegisterLecture records an uploaded lecture and seeds ledger records for
// its topics so they become due immediately
func RegisterLecture(userID uint, req models.RegisterLectureRequest) (*models.Lecture, error) {
	topicsJSON, err := json.Marshal(req.Topics)
	if err != nil {
		return nil, errors.BadRequest("invalid topics")
	}

	lecture := &models.Lecture{
		UserID: userID,
		Title:  req.Title,
		Topics: string(topicsJSON),
	}
	if err := repository.CreateLecture(lecture); err != nil {
		return nil, err
	}

	now := time.Now()
	for _, topic := range req.Topics {
		existing, err := repository.GetTopicReview(userID, topic)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			// Topic already tracked from an earlier lecture; keep its schedule
			continue
		}

		record := &models.TopicReview{
			UserID:             userID,
			Topic:              topic,
			SourceLectureID:    lecture.ID,
			SourceLectureTitle: lecture.Title,
			EaseFactor:         engine.InitialEase,
			IntervalDays:       1,
			NextDueOn:          now,
		}
		if err := repository.CreateTopicReview(record); err != nil {
			return nil, err
		}
	}

	return lecture, nil
}

// CompleteQuiz processes a scored quiz: study-day streak, XP award, per-topic
// scheduling, mastery sets, history, and achievement evaluation
func CompleteQuiz(userID uint, req models.CompleteQuizRequest) (*models.CompleteQuizResponse, error) {
	if req.CorrectCount > req.TotalQuestions {
		return nil, errors.BadRequest("correct_count cannot exceed total_questions")
	}
	if err := validation.ValidateConfidence(req.ConfidenceRating); err != nil {
		return nil, errors.Validation("invalid confidence rating", err.Error())
	}
	for _, ts := range req.TopicScores {
		if err := validation.ValidateScore(ts.Score); err != nil {
			return nil, errors.Validation("invalid topic score", err.Error())
		}
	}

	now := time.Now()

	progress, err := repository.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	updateStudyStreak(progress, now)

	percentage := req.CorrectCount * 100 / req.TotalQuestions
	isPerfect := req.CorrectCount == req.TotalQuestions

	// Improvement and comeback patterns come from the lecture's prior
	// attempts, in chronological order
	scoreDelta := 0
	isImprovement := false
	comebackTo := 0
	if req.LectureID != 0 {
		lecture, err := repository.GetLecture(userID, req.LectureID)
		if err != nil {
			return nil, err
		}
		if lecture == nil {
			return nil, errors.NotFound("lecture")
		}

		history, err := repository.GetLectureResults(userID, req.LectureID)
		if err != nil {
			return nil, err
		}
		if len(history) > 0 {
			previous := history[len(history)-1]
			scoreDelta = percentage - previous.Percentage
			isImprovement = scoreDelta > 0
		}
		for _, attempt := range history {
			if attempt.Percentage < ComebackFloor {
				comebackTo = percentage
				break
			}
		}
	}

	// Double XP applies to this quiz and is consumed by it
	doubleXPWasActive := progress.DoubleXPActive
	progress.DoubleXPActive = false

	// Power-up charges decrement on use, floor zero
	if req.UsedSecondChance && progress.SecondChances > 0 {
		progress.SecondChances--
	}
	if req.UsedHint && progress.HintCharges > 0 {
		progress.HintCharges--
	}

	award := engine.AwardQuizXP(progress.TotalXP, engine.QuizXPInput{
		CorrectCount:     req.CorrectCount,
		TotalQuestions:   req.TotalQuestions,
		ConfidenceRating: req.ConfidenceRating,
		IsImprovement:    isImprovement,
		CurrentStreak:    progress.CurrentStreak,
		DoubleXPActive:   doubleXPWasActive,
	})
	progress.TotalXP = award.NewTotalXP
	progress.Level = award.NewLevel
	totalLevelUps := award.LevelUps

	// Reschedule every topic the quiz touched and maintain the mastery sets
	mastered := progress.MasteredList()
	needsPractice := progress.NeedsPracticeList()
	schedules := make([]models.TopicScheduleResponse, 0, len(req.TopicScores))

	for _, ts := range req.TopicScores {
		existing, err := repository.GetTopicReview(userID, ts.Topic)
		if err != nil {
			return nil, err
		}

		updated := engine.Schedule(existing, ts.Score, now)
		if existing == nil {
			updated.UserID = userID
			updated.Topic = ts.Topic
			updated.SourceLectureID = req.LectureID
			if err := repository.CreateTopicReview(&updated); err != nil {
				return nil, err
			}
		} else {
			if err := repository.UpdateTopicReview(&updated); err != nil {
				return nil, err
			}
		}

		switch {
		case ts.Score >= MasteryScore:
			mastered = addTopic(mastered, ts.Topic)
			needsPractice = removeTopic(needsPractice, ts.Topic)
		case ts.Score < PracticeScore:
			needsPractice = addTopic(needsPractice, ts.Topic)
			mastered = removeTopic(mastered, ts.Topic)
		}

		schedules = append(schedules, models.TopicScheduleResponse{
			Topic:        updated.Topic,
			EaseFactor:   updated.EaseFactor,
			IntervalDays: updated.IntervalDays,
			NextDueOn:    updated.NextDueOn,
			Streak:       updated.Streak,
		})
	}
	progress.SetMasteredList(mastered)
	progress.SetNeedsPracticeList(needsPractice)

	progress.QuizzesCompleted++
	if isPerfect {
		progress.PerfectScores++
		progress.ConsecutivePerfect++
		// A perfect quiz charges double XP for the next one
		progress.DoubleXPActive = true
	} else {
		progress.ConsecutivePerfect = 0
	}

	result := &models.QuizResult{
		UserID:         userID,
		LectureID:      req.LectureID,
		CorrectCount:   req.CorrectCount,
		TotalQuestions: req.TotalQuestions,
		Percentage:     percentage,
		IsPerfect:      isPerfect,
		IsDailyQuiz:    req.IsDailyQuiz,
		CreatedAt:      now,
	}
	if err := repository.CreateQuizResult(result); err != nil {
		return nil, err
	}

	lectureCount, err := repository.CountLectures(userID)
	if err != nil {
		return nil, err
	}

	ctx := engine.EvaluationContext{
		TotalXP:            progress.TotalXP,
		Level:              progress.Level,
		LecturesUploaded:   lectureCount,
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
		LastScore:          percentage,
		ScoreDelta:         scoreDelta,
		ComebackTo:         comebackTo,
		IsPerfectQuiz:      isPerfect,
		MasteredTopics:     len(mastered),
		SharedResult:       req.SharedResult,
		StudiedWithPeer:    req.StudiedWithPeer,
		UsedSecondChance:   req.UsedSecondChance,
		UsedHint:           req.UsedHint,
		DoubleXPWasActive:  doubleXPWasActive,
	}

	newAchievements, achievementXP, err := evaluateAchievements(userID, ctx, now)
	if err != nil {
		return nil, err
	}
	if achievementXP > 0 {
		bonus := engine.AwardFlatXP(progress.TotalXP, achievementXP)
		progress.TotalXP = bonus.NewTotalXP
		progress.Level = bonus.NewLevel
		totalLevelUps += bonus.LevelUps
	}

	if totalLevelUps > 0 {
		levelUpAt := now
		progress.LastLevelUpAt = &levelUpAt
		// Each level grants one of each spendable power-up
		progress.SecondChances += totalLevelUps
		progress.HintCharges += totalLevelUps
	}

	if err := repository.UpdateProgress(progress); err != nil {
		return nil, err
	}

	return &models.CompleteQuizResponse{
		XPAwarded:       award.XPAwarded + achievementXP,
		TotalXP:         progress.TotalXP,
		Level:           progress.Level,
		LevelUps:        totalLevelUps,
		CurrentStreak:   progress.CurrentStreak,
		Schedules:       schedules,
		NewAchievements: newAchievements,
		MasteredTopics:  mastered,
		NeedsPractice:   needsPractice,
	}, nil
}

// RateConfidence awards the small standalone confidence XP (rating × 5)
func RateConfidence(userID uint, req models.ConfidenceRequest) (*models.ConfidenceResponse, error) {
	if err := validation.ValidateConfidence(req.Rating); err != nil {
		return nil, errors.Validation("invalid confidence rating", err.Error())
	}

	progress, err := repository.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	award := engine.AwardConfidenceXP(progress.TotalXP, req.Rating)
	progress.TotalXP = award.NewTotalXP
	progress.Level = award.NewLevel
	if award.LevelUps > 0 {
		levelUpAt := time.Now()
		progress.LastLevelUpAt = &levelUpAt
	}

	if err := repository.UpdateProgress(progress); err != nil {
		return nil, err
	}

	return &models.ConfidenceResponse{
		XPAwarded: award.XPAwarded,
		TotalXP:   progress.TotalXP,
		Level:     progress.Level,
	}, nil
}

// evaluateAchievements runs the evaluator, persists changed rows and returns
// the newly unlocked definitions with their summed XP reward
func evaluateAchievements(userID uint, ctx engine.EvaluationContext, now time.Time) ([]models.AchievementResponse, int, error) {
	defs, err := repository.ListAchievements()
	if err != nil {
		return nil, 0, err
	}
	states, err := repository.GetUserAchievements(userID)
	if err != nil {
		return nil, 0, err
	}

	result := engine.Evaluate(defs, states, ctx, now)

	for i := range result.Updated {
		result.Updated[i].UserID = userID
		if err := repository.SaveUserAchievement(&result.Updated[i]); err != nil {
			return nil, 0, err
		}
	}

	unlocked := make([]models.AchievementResponse, 0, len(result.NewlyUnlocked))
	for _, def := range result.NewlyUnlocked {
		unlocked = append(unlocked, models.AchievementResponse{
			Key:         def.Key,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			XPReward:    def.XPReward,
			MaxProgress: def.MaxProgress,
			Unlocked:    true,
			UnlockedOn:  &now,
			Progress:    def.MaxProgress,
		})
	}

	return unlocked, result.XPReward, nil
}

// updateStudyStreak maintains the consecutive-study-day counters by calendar
// adjacency: same day leaves the streak alone, yesterday extends it, any gap
// resets it to 1
func updateStudyStreak(progress *models.UserProgress, now time.Time) {
	today := dateOf(now)
	last := dateOf(progress.LastStudyDate)

	switch {
	case !progress.LastStudyDate.IsZero() && today.Equal(last):
		// Already counted today
	case !progress.LastStudyDate.IsZero() && last.AddDate(0, 0, 1).Equal(today):
		progress.CurrentStreak++
	default:
		progress.CurrentStreak = 1
	}

	if progress.CurrentStreak > progress.LongestStreak {
		progress.LongestStreak = progress.CurrentStreak
	}
	progress.LastStudyDate = now
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func addTopic(topics []string, topic string) []string {
	for _, t := range topics {
		if t == topic {
			return topics
		}
	}
	return append(topics, topic)
}

func removeTopic(topics []string, topic string) []string {
	out := topics[:0]
	for _, t := range topics {
		if t != topic {
			out = append(out, t)
		}
	}
	return out
}
