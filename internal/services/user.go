package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/models"
	"github.com/thereayou/warbler/pkg/auth"
)

// ProfileMessageLimit caps the messages shown on a profile.
const ProfileMessageLimit = 100

// Profile is a user's public page.
type Profile struct {
	User           *models.User     `json:"user"`
	Messages       []models.Message `json:"messages"`
	MessageCount   int64            `json:"message_count"`
	FollowerCount  int64            `json:"follower_count"`
	FollowingCount int64            `json:"following_count"`
	LikeCount      int              `json:"like_count"`
}

// ProfileChanges holds the editable profile fields. Nil fields are left unchanged;
// an empty string clears Bio and Location and resets the images to their defaults.
type ProfileChanges struct {
	Username       *string
	Email          *string
	ImageURL       *string
	HeaderImageURL *string
	Bio            *string
	Location       *string
}

func (c ProfileChanges) apply(user *models.User) {
	set := func(dst *string, v *string, fallback string) {
		if v == nil {
			return
		}
		*dst = *v
		if *dst == "" {
			*dst = fallback
		}
	}
	set(&user.Username, c.Username, "")
	set(&user.Email, c.Email, "")
	set(&user.ImageURL, c.ImageURL, models.DefaultImageURL)
	set(&user.HeaderImageURL, c.HeaderImageURL, models.DefaultHeaderImageURL)
	set(&user.Bio, c.Bio, "")
	set(&user.Location, c.Location, "")
}

type UserService struct {
	db     *database.Database
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

func NewUserService(db *database.Database, hasher *auth.PasswordHasher) *UserService {
	return &UserService{
		db:     db,
		hasher: hasher,
		logger: slog.Default().With("service", "user"),
	}
}

// List returns all users, or those whose username contains q.
func (s *UserService) List(ctx context.Context, q string) ([]models.User, error) {
	return s.db.ListUsers(ctx, q)
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.db.UserMessages(ctx, userID, ProfileMessageLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.db.CountUserMessages(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.db.FollowCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked, err := s.db.LikedMessageIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:           user,
		Messages:       messages,
		MessageCount:   count,
		FollowerCount:  followers,
		FollowingCount: following,
		LikeCount:      len(liked),
	}, nil
}

// Likes returns userID and the messages it likes.
func (s *UserService) Likes(ctx context.Context, identity *models.User, userID uuid.UUID) (*models.User, []models.Message, error) {
	if err := RequireIdentity(identity); err != nil {
		return nil, nil, err
	}
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.db.LikedMessages(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, messages, nil
}

// UpdateProfile applies changes to identity's own profile after re-checking its password.
func (s *UserService) UpdateProfile(ctx context.Context, identity *models.User, changes ProfileChanges, password string) (*models.User, error) {
	if err := RequireIdentity(identity); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		user, err := tx.GetUser(ctx, identity.ID)
		if err != nil {
			return err
		}

		ok, err := s.hasher.Compare(user.Password, password)
		if err != nil {
			return models.NewInternalError(fmt.Errorf("compare password for %s: %w", user.ID, err))
		}
		if !ok {
			return models.NewValidationError("Wrong password, please try again.")
		}

		changes.apply(user)
		if err := tx.UpdateUser(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile updated", "user_id", updated.ID)
	return updated, nil
}

// Delete removes identity's account along with its messages, follows and likes.
func (s *UserService) Delete(ctx context.Context, identity *models.User) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}
	if err := s.db.DeleteUser(ctx, identity.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted", "user_id", identity.ID)
	metrics.RecordEvent(metrics.EventUserDeleted)
	return nil
}
