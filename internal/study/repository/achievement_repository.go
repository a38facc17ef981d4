package repository

import (
	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedAchievements inserts achievement definitions, skipping keys that
// already exist. Safe to call on every startup.
func SeedAchievements(defs []models.Achievement) error {
	if len(defs) == 0 {
		return nil
	}

	result := database.DB.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&defs)

	if result.Error != nil {
		return errors.Internal("failed to seed achievements", result.Error.Error())
	}
	return nil
}

// ListAchievements retrieves all achievement definitions in seed order
func ListAchievements() ([]models.Achievement, error) {
	var defs []models.Achievement

	result := database.DB.Order("id ASC").Find(&defs)
	if result.Error != nil {
		return nil, errors.Internal("failed to fetch achievements", result.Error.Error())
	}

	return defs, nil
}

// GetUserAchievements retrieves a user's achievement state keyed by
// achievement key
func GetUserAchievements(userID uint) (map[string]models.UserAchievement, error) {
	var rows []models.UserAchievement

	result := database.DB.
		Where("user_id = ?", userID).
		Find(&rows)

	if result.Error != nil {
		return nil, errors.Internal("failed to fetch user achievements", result.Error.Error())
	}

	states := make(map[string]models.UserAchievement, len(rows))
	for _, row := range rows {
		states[row.AchievementKey] = row
	}
	return states, nil
}

// SaveUserAchievement creates or updates one per-user achievement row
func SaveUserAchievement(state *models.UserAchievement) error {
	if state.ID == 0 {
		var existing models.UserAchievement
		result := database.DB.
			Where("user_id = ? AND achievement_key = ?", state.UserID, state.AchievementKey).
			First(&existing)

		if result.Error == nil {
			state.ID = existing.ID
			state.CreatedAt = existing.CreatedAt
		} else if result.Error != gorm.ErrRecordNotFound {
			return errors.Internal("failed to fetch user achievement", result.Error.Error())
		}
	}

	result := database.DB.Save(state)
	if result.Error != nil {
		return errors.Internal("failed to save user achievement", result.Error.Error())
	}
	return nil
}

// DeleteUserAchievements removes a user's achievement state (full profile
// reset only)
func DeleteUserAchievements(userID uint) error {
	result := database.DB.
		Where("user_id = ?", userID).
		Delete(&models.UserAchievement{})

	if result.Error != nil {
		return errors.Internal("failed to delete user achievements", result.Error.Error())
	}
	return nil
}
