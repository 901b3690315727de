package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/models"
	"github.com/thereayou/warbler/pkg/auth"
)

// AuthResult is the outcome of Authenticate: either a matching user was found or not.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
type AuthResult struct {
	user *models.User
}

func Found(u *models.User) AuthResult { return AuthResult{user: u} }

func NotFound() AuthResult { return AuthResult{} }

func (r AuthResult) Found() bool { return r.user != nil }

// User is nil unless Found.
func (r AuthResult) User() *models.User { return r.user }

// AccountService owns the credential model: building users from plaintext
// credentials and checking a login attempt.
type AccountService struct {
	db     *database.Database
	hasher *auth.PasswordHasher
	logger *slog.Logger
}

func NewAccountService(db *database.Database, hasher *auth.PasswordHasher) *AccountService {
	return &AccountService{
		db:     db,
		hasher: hasher,
		logger: slog.Default().With("service", "account"),
	}
}

// Signup builds a user with a hashed password. Nothing is persisted; the caller
// saves the user, and only then do uniqueness and non-blank rules apply.
func (s *AccountService) Signup(username, email, password, imageURL string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyPassword):
			return nil, models.NewValidationError("Password must not be empty.")
		case errors.Is(err, auth.ErrPasswordTooLong):
			return nil, models.NewValidationError("Password must be at most 72 bytes.")
		}
		return nil, models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		ImageURL: imageURL,
	}
	if user.ImageURL == "" {
		user.ImageURL = models.DefaultImageURL
	}
	user.HeaderImageURL = models.DefaultHeaderImageURL
	return user, nil
}

// Register runs Signup and persists the result. Duplicate or blank username and
// email come back as an integrity error and nothing is written.
func (s *AccountService) Register(ctx context.Context, username, email, password, imageURL string) (*models.User, error) {
	user, err := s.Signup(username, email, password, imageURL)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx *database.Database) error {
		return tx.SaveUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "username", user.Username)
	metrics.RecordEvent(metrics.EventUserSignedUp)
	return user, nil
}

// Authenticate looks up username and checks password against the stored hash.
// An error means storage failed or the stored hash is unreadable.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	user, err := s.db.FindUserByUsername(ctx, username)
	if err != nil {
		return NotFound(), err
	}
	if user == nil {
		return NotFound(), nil
	}

	ok, err := s.hasher.Compare(user.Password, password)
	if err != nil {
		return NotFound(), models.NewInternalError(fmt.Errorf("compare password for %s: %w", user.ID, err))
	}
	if !ok {
		return NotFound(), nil
	}
	return Found(user), nil
}
