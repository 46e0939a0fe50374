package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(userID, authorID uint) error
	Delete(userID, authorID uint) (bool, error)
	Exists(userID, authorID uint) (bool, error)
	// SubscribedAmong returns which of authorIDs userID follows.
	SubscribedAmong(userID uint, authorIDs []uint) (map[uint]bool, error)
	// FindAuthors returns one page of the authors userID follows, oldest subscription first.
	FindAuthors(userID uint, offset, limit int) ([]model.User, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(userID, authorID uint) error {
	logger.Debug("Creating subscription in database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	sub := &model.Subscription{UserID: userID, AuthorID: authorID}
	if err := r.db.Create(sub).Error; err != nil {
		logger.Error("Failed to create subscription in database", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return err
	}

	logger.Debug("Subscription created in database", map[string]interface{}{
		"subscription_id": sub.ID,
	})
	return nil
}

// Delete removes the edge and reports whether it existed.
func (r *subscriptionRepository) Delete(userID, authorID uint) (bool, error) {
	logger.Debug("Deleting subscription from database", map[string]interface{}{
		"user_id":   userID,
		"author_id": authorID,
	})

	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Subscription{})
	if result.Error != nil {
		logger.Error("Failed to delete subscription from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Exists(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check subscription", err, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *subscriptionRepository) SubscribedAmong(userID uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return subscribed, nil
	}

	var ids []uint
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		logger.Error("Failed to load subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	for _, id := range ids {
		subscribed[id] = true
	}
	return subscribed, nil
}

func (r *subscriptionRepository) FindAuthors(userID uint, offset, limit int) ([]model.User, int64, error) {
	logger.Debug("Finding subscribed authors in database", map[string]interface{}{
		"user_id": userID,
		"offset":  offset,
		"limit":   limit,
	})

	var total int64
	if err := r.db.Model(&model.Subscription{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		logger.Error("Failed to count subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	var authors []model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Order("subscriptions.id ASC").
		Offset(offset).Limit(limit).
		Find(&authors).Error
	if err != nil {
		logger.Error("Failed to find subscribed authors", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("Subscribed authors found in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(authors),
		"total":   total,
	})
	return authors, total, nil
}
