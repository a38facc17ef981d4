package repository

import (
	"github.com/architect/studyquest/internal/common/database"
	"github.com/architect/studyquest/internal/common/errors"
	"github.com/architect/studyquest/internal/study/models"
	"gorm.io/gorm"
)

// GetTopicReview retrieves the ledger record for one (user, topic)
func GetTopicReview(userID uint, topic string) (*models.TopicReview, error) {
	var review models.TopicReview
	result := database.DB.
		Where("user_id = ? AND topic = ?", userID, topic).
		First(&review)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil // No record yet
		}
		return nil, errors.Internal("failed to fetch topic review", result.Error.Error())
	}

	return &review, nil
}

// ListTopicReviews retrieves the full ledger for a user in insertion order
func ListTopicReviews(userID uint) ([]models.TopicReview, error) {
	var reviews []models.TopicReview

	result := database.DB.
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&reviews)

	if result.Error != nil {
		return nil, errors.Internal("failed to fetch topic reviews", result.Error.Error())
	}

	return reviews, nil
}

// CreateTopicReview creates a new ledger record
func CreateTopicReview(review *models.TopicReview) error {
	result := database.DB.Create(review)
	if result.Error != nil {
		return errors.Internal("failed to create topic review", result.Error.Error())
	}
	return nil
}

// UpdateTopicReview saves an updated ledger record
func UpdateTopicReview(review *models.TopicReview) error {
	result := database.DB.Save(review)
	if result.Error != nil {
		return errors.Internal("failed to update topic review", result.Error.Error())
	}
	return nil
}

// DeleteTopicReviews removes a user's entire ledger (full profile reset only)
func DeleteTopicReviews(userID uint) error {
	result := database.DB.
		Where("user_id = ?", userID).
		Delete(&models.TopicReview{})

	if result.Error != nil {
		return errors.Internal("failed to delete topic reviews", result.Error.Error())
	}
	return nil
}
