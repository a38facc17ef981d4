package services

import (
	"testing"
	"time"

	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/engine"
	"github.com/architect/studyquest/internal/study/models"
	"github.com/architect/studyquest/internal/study/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.DB = db
	require.NoError(t, database.AutoMigrate())
}

func TestRegisterLecture_SeedsLedger(t *testing.T) {
	setupTestDB(t)

	lecture, err := RegisterLecture(1, models.RegisterLectureRequest{
		Title:  "Graph Algorithms",
		Topics: []string{"bfs", "dfs"},
	})
	require.NoError(t, err)
	assert.NotZero(t, lecture.ID)

	ledger, err := repository.ListTopicReviews(1)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.Equal(t, "bfs", ledger[0].Topic)
	assert.Equal(t, lecture.ID, ledger[0].SourceLectureID)
	assert.Equal(t, "Graph Algorithms", ledger[0].SourceLectureTitle)
	assert.Equal(t, engine.InitialEase, ledger[0].EaseFactor)
	assert.Equal(t, 0, ledger[0].ReviewCount)
	assert.False(t, ledger[0].NextDueOn.After(time.Now()))
}

func TestRegisterLecture_KeepsExistingSchedule(t *testing.T) {
	setupTestDB(t)

	first, err := RegisterLecture(1, models.RegisterLectureRequest{
		Title:  "Trees I",
		Topics: []string{"avl trees"},
	})
	require.NoError(t, err)

	_, err = CompleteQuiz(1, models.CompleteQuizRequest{
		LectureID:      first.ID,
		TopicScores:    []models.TopicScoreInput{{Topic: "avl trees", Score: 90}},
		CorrectCount:   9,
		TotalQuestions: 10,
	})
	require.NoError(t, err)

	// A second lecture covering the same topic must not reset its schedule
	_, err = RegisterLecture(1, models.RegisterLectureRequest{
		Title:  "Trees II",
		Topics: []string{"avl trees"},
	})
	require.NoError(t, err)

	rec, err := repository.GetTopicReview(1, "avl trees")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.ReviewCount)
	assert.Equal(t, 3, rec.IntervalDays)
}

func TestCompleteQuiz_AwardsXPAndSchedules(t *testing.T) {
	setupTestDB(t)

	resp, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "recursion", Score: 90}},
		CorrectCount:   9,
		TotalQuestions: 10,
	})
	require.NoError(t, err)

	// 50 base + 90 correct + 5 streak-day, no multiplier at streak 1
	assert.Equal(t, 145, resp.XPAwarded)
	assert.Equal(t, 145, resp.TotalXP)
	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, 1, resp.CurrentStreak)

	require.Len(t, resp.Schedules, 1)
	assert.Equal(t, "recursion", resp.Schedules[0].Topic)
	assert.Equal(t, 1, resp.Schedules[0].Streak)
	assert.Equal(t, 3, resp.Schedules[0].IntervalDays)
	assert.InDelta(t, 2.555, resp.Schedules[0].EaseFactor, 1e-9)

	assert.Equal(t, []string{"recursion"}, resp.MasteredTopics)
	assert.Empty(t, resp.NeedsPractice)

	progress, err := repository.GetProgress(1)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 1, progress.QuizzesCompleted)
	assert.Equal(t, 145, progress.TotalXP)

	history, err := repository.GetRecentResults(1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 90, history[0].Percentage)
}

func TestCompleteQuiz_RejectsImpossibleCounts(t *testing.T) {
	setupTestDB(t)

	_, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "sets", Score: 50}},
		CorrectCount:   11,
		TotalQuestions: 10,
	})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestCompleteQuiz_UnknownLectureRejected(t *testing.T) {
	setupTestDB(t)

	_, err := CompleteQuiz(1, models.CompleteQuizRequest{
		LectureID:      99,
		TopicScores:    []models.TopicScoreInput{{Topic: "sets", Score: 80}},
		CorrectCount:   8,
		TotalQuestions: 10,
	})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestCompleteQuiz_ForeignLectureRejected(t *testing.T) {
	setupTestDB(t)

	lecture, err := RegisterLecture(2, models.RegisterLectureRequest{
		Title:  "Someone Else's Notes",
		Topics: []string{"monads"},
	})
	require.NoError(t, err)

	_, err = CompleteQuiz(1, models.CompleteQuizRequest{
		LectureID:      lecture.ID,
		TopicScores:    []models.TopicScoreInput{{Topic: "monads", Score: 80}},
		CorrectCount:   8,
		TotalQuestions: 10,
	})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestCompleteQuiz_RejectsOutOfRangeScore(t *testing.T) {
	setupTestDB(t)

	_, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "sets", Score: 120}},
		CorrectCount:   5,
		TotalQuestions: 10,
	})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidation, appErr.Code)
}

func TestCompleteQuiz_MasterySetsFlipWithScores(t *testing.T) {
	setupTestDB(t)

	resp, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores: []models.TopicScoreInput{
			{Topic: "heaps", Score: 95},
			{Topic: "tries", Score: 40},
		},
		CorrectCount:   6,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"heaps"}, resp.MasteredTopics)
	assert.Equal(t, []string{"tries"}, resp.NeedsPractice)

	// Scores cross in the other direction: membership follows
	resp, err = CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores: []models.TopicScoreInput{
			{Topic: "heaps", Score: 50},
			{Topic: "tries", Score: 100},
		},
		CorrectCount:   7,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tries"}, resp.MasteredTopics)
	assert.Equal(t, []string{"heaps"}, resp.NeedsPractice)
}

func TestCompleteQuiz_PerfectChargesDoubleXP(t *testing.T) {
	setupTestDB(t)

	first, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "stacks", Score: 100}},
		CorrectCount:   10,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	// 50 + 100 + 50 perfect + 5 streak = 205
	assert.Equal(t, 205, first.XPAwarded)

	progress, err := repository.GetProgress(1)
	require.NoError(t, err)
	assert.True(t, progress.DoubleXPActive)
	assert.Equal(t, 1, progress.PerfectScores)
	assert.Equal(t, 1, progress.ConsecutivePerfect)

	// The next quiz doubles its XP and consumes the charge
	second, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "queues", Score: 80}},
		CorrectCount:   8,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	// (50 + 80 + 5) * 2 = 270
	assert.Equal(t, 270, second.XPAwarded)

	progress, err = repository.GetProgress(1)
	require.NoError(t, err)
	assert.False(t, progress.DoubleXPActive)
	assert.Equal(t, 0, progress.ConsecutivePerfect)
}

func TestCompleteQuiz_ImprovementBonus(t *testing.T) {
	setupTestDB(t)

	lecture, err := RegisterLecture(1, models.RegisterLectureRequest{
		Title:  "Sorting",
		Topics: []string{"quicksort"},
	})
	require.NoError(t, err)

	_, err = CompleteQuiz(1, models.CompleteQuizRequest{
		LectureID:      lecture.ID,
		TopicScores:    []models.TopicScoreInput{{Topic: "quicksort", Score: 50}},
		CorrectCount:   5,
		TotalQuestions: 10,
	})
	require.NoError(t, err)

	resp, err := CompleteQuiz(1, models.CompleteQuizRequest{
		LectureID:      lecture.ID,
		TopicScores:    []models.TopicScoreInput{{Topic: "quicksort", Score: 80}},
		CorrectCount:   8,
		TotalQuestions: 10,
	})
	require.NoError(t, err)

	// 50 + 80 + 20 improvement + 5 streak = 155
	assert.Equal(t, 155, resp.XPAwarded)
}

func TestCompleteQuiz_UnlocksSeededAchievements(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, repository.SeedAchievements(engine.Definitions()))

	resp, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "pointers", Score: 100}},
		CorrectCount:   10,
		TotalQuestions: 10,
	})
	require.NoError(t, err)

	keys := make(map[string]bool)
	for _, a := range resp.NewAchievements {
		keys[a.Key] = true
	}
	assert.True(t, keys["first_quiz"])
	assert.True(t, keys["first_perfect"])

	// Achievement XP lands in the same response totals
	progress, err := repository.GetProgress(1)
	require.NoError(t, err)
	assert.Equal(t, progress.TotalXP, resp.TotalXP)
	assert.Greater(t, resp.XPAwarded, 205)

	// Resubmitting similar results never re-unlocks
	again, err := CompleteQuiz(1, models.CompleteQuizRequest{
		TopicScores:    []models.TopicScoreInput{{Topic: "pointers", Score: 100}},
		CorrectCount:   10,
		TotalQuestions: 10,
	})
	require.NoError(t, err)
	for _, a := range again.NewAchievements {
		assert.NotEqual(t, "first_quiz", a.Key)
		assert.NotEqual(t, "first_perfect", a.Key)
	}
}

func TestRateConfidence(t *testing.T) {
	setupTestDB(t)

	resp, err := RateConfidence(1, models.ConfidenceRequest{Rating: 4})
	require.NoError(t, err)

	assert.Equal(t, 20, resp.XPAwarded)
	assert.Equal(t, 20, resp.TotalXP)
	assert.Equal(t, 1, resp.Level)
}

func TestGetDailyQuiz_IdempotentUntilCompleted(t *testing.T) {
	setupTestDB(t)

	_, err := RegisterLecture(1, models.RegisterLectureRequest{
		Title:  "Concurrency",
		Topics: []string{"mutexes", "channels"},
	})
	require.NoError(t, err)

	first, err := GetDailyQuiz(1, 10)
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Len(t, first.Items, 2)
	assert.False(t, first.Completed)

	second, err := GetDailyQuiz(1, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	completed, err := CompleteDailyQuiz(1, models.CompleteDailyQuizRequest{Score: 85})
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	assert.Equal(t, 85, completed.Score)
	require.NotNil(t, completed.CompletedOn)

	progress, err := repository.GetProgress(1)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.DailyQuizzesDone)
	assert.Equal(t, 1, progress.ConsecutiveDaily)

	// Completion opens the door to a fresh plan
	third, err := GetDailyQuiz(1, 10)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestGetDailyQuiz_EmptyLedger(t *testing.T) {
	setupTestDB(t)

	plan, err := GetDailyQuiz(1, 10)
	require.NoError(t, err)

	assert.Empty(t, plan.ID)
	assert.Empty(t, plan.Items)

	// Nothing was persisted
	open, err := repository.GetOpenDailyQuiz(1)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestCompleteDailyQuiz_NoOpenPlan(t *testing.T) {
	setupTestDB(t)

	_, err := CompleteDailyQuiz(1, models.CompleteDailyQuizRequest{Score: 90})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Status)
}

func TestResetProgress_WipesEverything(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, repository.SeedAchievements(engine.Definitions()))

	lecture, err := RegisterLecture(1, models.RegisterLectureRequest{
		Title:  "Hashing",
		Topics: []string{"hash maps"},
	})
	require.NoError(t, err)

	_, err = CompleteQuiz(1, models.CompleteQuizRequest{
		LectureID:      lecture.ID,
		TopicScores:    []models.TopicScoreInput{{Topic: "hash maps", Score: 100}},
		CorrectCount:   10,
		TotalQuestions: 10,
	})
	require.NoError(t, err)

	require.NoError(t, ResetProgress(1))

	progress, err := repository.GetProgress(1)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 0, progress.TotalXP)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 0, progress.QuizzesCompleted)
	assert.Empty(t, progress.MasteredList())

	ledger, err := repository.ListTopicReviews(1)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	states, err := repository.GetUserAchievements(1)
	require.NoError(t, err)
	assert.Empty(t, states)

	history, err := repository.GetRecentResults(1, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGetProgress_CreatesDefaultProfile(t *testing.T) {
	setupTestDB(t)

	resp, err := GetProgress(42)
	require.NoError(t, err)

	assert.Equal(t, uint(42), resp.UserID)
	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, 0, resp.TotalXP)
	assert.Equal(t, 400, resp.XPForNextLevel)
	assert.NotNil(t, resp.MasteredTopics)
	assert.NotNil(t, resp.NeedsPractice)
}

func TestGetTopics_DueAnnotations(t *testing.T) {
	setupTestDB(t)

	overdue := &models.TopicReview{
		UserID:     1,
		Topic:      "closures",
		EaseFactor: 2.5,
		NextDueOn:  time.Now().AddDate(0, 0, -2),
	}
	require.NoError(t, repository.CreateTopicReview(overdue))
	future := &models.TopicReview{
		UserID:     1,
		Topic:      "interfaces",
		EaseFactor: 2.5,
		NextDueOn:  time.Now().AddDate(0, 0, 5),
	}
	require.NoError(t, repository.CreateTopicReview(future))

	topics, err := GetTopics(1)
	require.NoError(t, err)
	require.Len(t, topics, 2)

	byTopic := make(map[string]models.TopicStatusResponse)
	for _, tp := range topics {
		byTopic[tp.Topic] = tp
	}
	assert.True(t, byTopic["closures"].Due)
	assert.Equal(t, 2, byTopic["closures"].DaysOverdue)
	assert.False(t, byTopic["interfaces"].Due)
	assert.Equal(t, 0, byTopic["interfaces"].DaysOverdue)
}

func TestGetLeaderboard_RanksByXP(t *testing.T) {
	setupTestDB(t)

	for i, xp := range []int{500, 2500, 1200} {
		require.NoError(t, repository.CreateProgress(&models.UserProgress{
			UserID:         uint(i + 1),
			Level:          engine.LevelForXP(xp),
			TotalXP:        xp,
			MasteredTopics: "[]",
			NeedsPractice:  "[]",
		}))
	}

	entries, err := GetLeaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, uint(3), entries[1].UserID)
	assert.Equal(t, uint(1), entries[2].UserID)
}

func TestUpdateStudyStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		lastStudy   time.Time
		streak      int
		wantStreak  int
		wantLongest int
	}{
		{"first ever study day", time.Time{}, 0, 1, 1},
		{"same day repeat", time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC), 4, 4, 4},
		{"consecutive day", time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC), 4, 5, 5},
		{"gap resets", time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC), 9, 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := &models.UserProgress{
				CurrentStreak: tt.streak,
				LongestStreak: tt.streak,
				LastStudyDate: tt.lastStudy,
			}

			updateStudyStreak(progress, now)

			assert.Equal(t, tt.wantStreak, progress.CurrentStreak)
			assert.Equal(t, tt.wantLongest, progress.LongestStreak)
			assert.Equal(t, now, progress.LastStudyDate)
		})
	}
}
