package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/gorm/clause"
)

func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return writeError(d.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error)
}

func (d *Database) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := d.db.WithContext(ctx).Preload("User").First(&message, "id = ?", id).Error; err != nil {
		return nil, readError("Message", id, err)
	}
	return &message, nil
}

// DeleteMessage removes a message and its likes.
func (d *Database) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return d.Transaction(ctx, func(tx *Database) error {
		if err := tx.db.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.db.Delete(&models.Message{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Message", id)
		}
		return nil
	})
}

// UserMessages returns a user's messages, newest first.
func (d *Database) UserMessages(ctx context.Context, userID uuid.UUID, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (d *Database) CountUserMessages(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&models.Message{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

// Timeline returns the messages of userID and of everyone userID follows, newest first.
func (d *Database) Timeline(ctx context.Context, userID uuid.UUID, limit int) ([]models.Message, error) {
	db := d.db.WithContext(ctx)
	followed := db.Model(&models.Follow{}).
		Select("user_being_followed_id").
		Where("user_following_id = ?", userID)

	var messages []models.Message
	err := db.
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("timestamp DESC").
		Limit(limit).
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
