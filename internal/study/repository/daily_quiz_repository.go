package repository

import (
	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/models"
	"gorm.io/gorm"
)

// GetOpenDailyQuiz retrieves the user's uncompleted plan, if any. At most
// one exists at a time.
func GetOpenDailyQuiz(userID uint) (*models.DailyQuiz, error) {
	var plan models.DailyQuiz
	result := database.DB.
		Where("user_id = ? AND completed = ?", userID, false).
		First(&plan)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch daily quiz", result.Error.Error())
	}

	return &plan, nil
}

// CreateDailyQuiz stores a freshly generated plan
func CreateDailyQuiz(plan *models.DailyQuiz) error {
	result := database.DB.Create(plan)
	if result.Error != nil {
		return errors.Internal("failed to create daily quiz", result.Error.Error())
	}
	return nil
}

// UpdateDailyQuiz saves plan completion state
func UpdateDailyQuiz(plan *models.DailyQuiz) error {
	result := database.DB.Save(plan)
	if result.Error != nil {
		return errors.Internal("failed to update daily quiz", result.Error.Error())
	}
	return nil
}

// DeleteDailyQuizzes removes a user's plans (full profile reset only)
func DeleteDailyQuizzes(userID uint) error {
	result := database.DB.
		Where("user_id = ?", userID).
		Delete(&models.DailyQuiz{})

	if result.Error != nil {
		return errors.Internal("failed to delete daily quizzes", result.Error.Error())
	}
	return nil
}
