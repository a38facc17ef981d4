package repository

import (
	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/models"
)

// CreateQuizResult appends a scored quiz to the user's history
func CreateQuizResult(result *models.QuizResult) error {
	res := database.DB.Create(result)
	if res.Error != nil {
		return errors.Internal("failed to create quiz result", res.Error.Error())
	}
	return nil
}

// GetLectureResults retrieves a user's quiz history for one lecture in
// chronological order. The explicit ordering matters: improvement detection
// compares adjacent attempts and must not depend on storage order.
func GetLectureResults(userID, lectureID uint) ([]models.QuizResult, error) {
	var results []models.QuizResult

	res := database.DB.
		Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		Order("created_at ASC, id ASC").
		Find(&results)

	if res.Error != nil {
		return nil, errors.Internal("failed to fetch lecture results", res.Error.Error())
	}

	return results, nil
}

// GetRecentResults retrieves a user's most recent quiz results, newest first
func GetRecentResults(userID uint, limit int) ([]models.QuizResult, error) {
	var results []models.QuizResult

	res := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&results)

	if res.Error != nil {
		return nil, errors.Internal("failed to fetch recent results", res.Error.Error())
	}

	return results, nil
}

// DeleteQuizResults removes a user's quiz history (full profile reset only)
func DeleteQuizResults(userID uint) error {
	res := database.DB.
		Where("user_id = ?", userID).
		Delete(&models.QuizResult{})

	if res.Error != nil {
		return errors.Internal("failed to delete quiz results", res.Error.Error())
	}
	return nil
}
