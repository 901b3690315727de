package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/gorm/clause"
)

// AddLike fails with an integrity error when the user already likes the message.
func (d *Database) AddLike(ctx context.Context, userID, messageID uuid.UUID) error {
	like := &models.Like{UserID: userID, MessageID: messageID}
	return writeError(d.db.WithContext(ctx).Omit(clause.Associations).Create(like).Error)
}

func (d *Database) RemoveLike(ctx context.Context, userID, messageID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, writeError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (d *Database) HasLiked(ctx context.Context, userID, messageID uuid.UUID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

// LikedMessages returns the messages userID likes, newest first.
func (d *Database) LikedMessages(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.WithContext(ctx).
		Joins("JOIN likes l ON l.message_id = messages.id").
		Where("l.user_id = ?", userID).
		Order("messages.timestamp DESC").
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (d *Database) LikedMessageIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (d *Database) CountLikes(ctx context.Context, messageID uuid.UUID) (int64, error) {
	var n int64
	if err := d.db.WithContext(ctx).Model(&models.Like{}).Where("message_id = ?", messageID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
