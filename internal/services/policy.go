// Package services holds the application's use cases. Every operation that
// acts on behalf of a user takes that user's identity explicitly; a nil
// identity means nobody is logged in.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/models"
)

// UserLookup is the part of the repository ResolveIdentity needs.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ResolveIdentity turns the user id stored in a session into a user. An empty or
// malformed id, or one whose user no longer exists, yields no identity.
func ResolveIdentity(ctx context.Context, users UserLookup, rawID string) (*models.User, error) {
	if rawID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, nil
	}

	user, err := users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func RequireIdentity(identity *models.User) error {
	if identity == nil {
		metrics.AuthFailures.WithLabelValues("no_identity").Inc()
		return models.ErrUnauthorized
	}
	return nil
}

// RequireOwner allows the request only when identity authored msg.
func RequireOwner(identity *models.User, msg *models.Message) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}
	if msg.UserID != identity.ID {
		metrics.AuthFailures.WithLabelValues("not_owner").Inc()
		return models.ErrUnauthorized
	}
	return nil
}
