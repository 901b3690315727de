package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return writeError(d.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (d *Database) UpdateUser(ctx context.Context, user *models.User) error {
	return writeError(d.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, readError("User", id, err)
	}
	return &user, nil
}

// FindUserByUsername returns nil, nil when no user has that username.
func (d *Database) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// ListUsers returns users ordered by username, filtered by a username substring when search is set.
func (d *Database) ListUsers(ctx context.Context, search string) ([]models.User, error) {
	var users []models.User
	query := d.db.WithContext(ctx).Order("username ASC")
	if search != "" {
		query = query.Where("username LIKE ?", "%"+search+"%")
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// DeleteUser removes a user and everything that depends on it in one transaction.
func (d *Database) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return d.Transaction(ctx, func(tx *Database) error {
		db := tx.db
		ownMessages := db.Model(&models.Message{}).Select("id").Where("user_id = ?", id)

		if err := db.Where("user_id = ? OR message_id IN (?)", id, ownMessages).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_being_followed_id = ? OR user_following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}

		res := db.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
		}
		return nil
	})
}
