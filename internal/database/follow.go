package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/gorm/clause"
)

// Follow records followerID -> followedID. Following twice is a no-op; an unknown
// user on either end is rejected by the foreign keys.
func (d *Database) Follow(ctx context.Context, followerID, followedID uuid.UUID) error {
	_, err := d.CreateFollow(ctx, followerID, followedID)
	return err
}

// CreateFollow is Follow that also reports whether a new edge was written.
func (d *Database) CreateFollow(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	edge := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	res := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge)
	if res.Error != nil {
		return false, writeError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Unfollow removes the edge and reports whether it existed.
func (d *Database) Unfollow(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	res := d.db.WithContext(ctx).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, writeError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (d *Database) IsFollowing(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

// IsFollowedBy reports whether otherID follows userID.
func (d *Database) IsFollowedBy(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	return d.IsFollowing(ctx, otherID, userID)
}

// FollowersOf returns the users following userID.
func (d *Database) FollowersOf(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN follows f ON f.user_following_id = users.id").
		Where("f.user_being_followed_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FollowingOf returns the users userID follows.
func (d *Database) FollowingOf(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := d.db.WithContext(ctx).
		Joins("JOIN follows f ON f.user_being_followed_id = users.id").
		Where("f.user_following_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FollowerIDs returns only the ids of userID's followers.
func (d *Database) FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := d.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_being_followed_id = ?", userID).
		Pluck("user_following_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (d *Database) FollowCounts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error) {
	db := d.db.WithContext(ctx)
	if err = db.Model(&models.Follow{}).Where("user_being_followed_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if err = db.Model(&models.Follow{}).Where("user_following_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return followers, following, nil
}
