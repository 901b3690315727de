package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/models"
)

type FollowService struct {
	db     *database.Database
	logger *slog.Logger
}

func NewFollowService(db *database.Database) *FollowService {
	return &FollowService{
		db:     db,
		logger: slog.Default().With("service", "follow"),
	}
}

// Follow makes identity follow targetID. Following twice is a no-op and an
// unknown target is rejected by storage.
func (s *FollowService) Follow(ctx context.Context, identity *models.User, targetID uuid.UUID) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}
	if targetID == identity.ID {
		return models.NewValidationError("You cannot follow yourself.")
	}

	var created bool
	err := s.db.Transaction(ctx, func(tx *database.Database) (err error) {
		created, err = tx.CreateFollow(ctx, identity.ID, targetID)
		return err
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.logger.InfoContext(ctx, "user followed", "follower_id", identity.ID, "followed_id", targetID)
	metrics.RecordEvent(metrics.EventUserFollowed)
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, identity *models.User, targetID uuid.UUID) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}

	var removed bool
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		var err error
		removed, err = tx.Unfollow(ctx, identity.ID, targetID)
		return err
	})
	if err != nil {
		return err
	}

	if removed {
		s.logger.InfoContext(ctx, "user unfollowed", "follower_id", identity.ID, "followed_id", targetID)
		metrics.RecordEvent(metrics.EventUserUnfollowed)
	}
	return nil
}

// Following returns userID and the users it follows.
func (s *FollowService) Following(ctx context.Context, identity *models.User, userID uuid.UUID) (*models.User, []models.User, error) {
	if err := RequireIdentity(identity); err != nil {
		return nil, nil, err
	}
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	users, err := s.db.FollowingOf(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, users, nil
}

// Followers returns userID and the users following it.
func (s *FollowService) Followers(ctx context.Context, identity *models.User, userID uuid.UUID) (*models.User, []models.User, error) {
	if err := RequireIdentity(identity); err != nil {
		return nil, nil, err
	}
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	users, err := s.db.FollowersOf(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, users, nil
}
