package repository

import (
	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/models"
	"gorm.io/gorm"
)

// CreateLecture registers an uploaded lecture
func CreateLecture(lecture *models.Lecture) error {
	result := database.DB.Create(lecture)
	if result.Error != nil {
		return errors.Internal("failed to create lecture", result.Error.Error())
	}
	return nil
}

// GetLecture retrieves one lecture by id for a user
func GetLecture(userID, lectureID uint) (*models.Lecture, error) {
	var lecture models.Lecture
	result := database.DB.
		Where("user_id = ? AND id = ?", userID, lectureID).
		First(&lecture)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch lecture", result.Error.Error())
	}

	return &lecture, nil
}

// CountLectures returns how many lectures a user has uploaded
func CountLectures(userID uint) (int, error) {
	var count int64

	result := database.DB.
		Model(&models.Lecture{}).
		Where("user_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Internal("failed to count lectures", result.Error.Error())
	}

	return int(count), nil
}
