package repository

import (
	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/models"
	"gorm.io/gorm"
)

// GetProgress retrieves a user's progression row
func GetProgress(userID uint) (*models.UserProgress, error) {
	var progress models.UserProgress
	result := database.DB.Where("user_id = ?", userID).First(&progress)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch user progress", result.Error.Error())
	}

	return &progress, nil
}

// GetOrCreateProgress retrieves a user's progression row, creating the
// default row on first use
func GetOrCreateProgress(userID uint) (*models.UserProgress, error) {
	progress, err := GetProgress(userID)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		return progress, nil
	}

	progress = &models.UserProgress{
		UserID:         userID,
		Level:          1,
		TotalXP:        0,
		MasteredTopics: "[]",
		NeedsPractice:  "[]",
	}
	if createErr := CreateProgress(progress); createErr != nil {
		return nil, createErr
	}
	return progress, nil
}

// CreateProgress creates a new progression row
func CreateProgress(progress *models.UserProgress) error {
	result := database.DB.Create(progress)
	if result.Error != nil {
		return errors.Internal("failed to create user progress", result.Error.Error())
	}
	return nil
}

// UpdateProgress saves a progression row
func UpdateProgress(progress *models.UserProgress) error {
	result := database.DB.Save(progress)
	if result.Error != nil {
		return errors.Internal("failed to update user progress", result.Error.Error())
	}
	return nil
}

// GetLeaderboard retrieves the top progression rows by total XP
func GetLeaderboard(limit int) ([]*models.UserProgress, error) {
	var rows []*models.UserProgress

	result := database.DB.
		Order("total_xp DESC").
		Limit(limit).
		Find(&rows)

	if result.Error != nil {
		return nil, errors.Internal("failed to fetch leaderboard", result.Error.Error())
	}

	return rows, nil
}
