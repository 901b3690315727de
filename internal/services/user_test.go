package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/warbler/internal/models"
)

func TestUserService_ListAndProfile(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db, testHasher())
	users := NewUserService(db, testHasher())
	messages := NewMessageService(db, nil)
	follows := NewFollowService(db)
	ctx := context.Background()

	alice := register(t, accounts, "alice")
	bob := register(t, accounts, "bob")
	require.NoError(t, follows.Follow(ctx, bob, alice.ID))
	m, err := messages.Create(ctx, bob, "hi alice")
	require.NoError(t, err)
	_, err = messages.ToggleLike(ctx, alice, m.ID)
	require.NoError(t, err)

	all, err := users.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	found, err := users.List(ctx, "ali")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)

	p, err := users.Profile(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, p.MessageCount)
	assert.EqualValues(t, 1, p.FollowerCount)
	assert.EqualValues(t, 0, p.FollowingCount)
	assert.Equal(t, 1, p.LikeCount)

	p, err = users.Profile(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.MessageCount)
	require.Len(t, p.Messages, 1)
	assert.EqualValues(t, 1, p.FollowingCount)

	_, err = users.Profile(ctx, uuid.New())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, liked, err := users.Likes(ctx, bob, alice.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, m.ID, liked[0].ID)

	_, _, err = users.Likes(ctx, nil, alice.ID)
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestUserService_UpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db, testHasher())
	users := NewUserService(db, testHasher())
	ctx := context.Background()

	u := register(t, accounts, "testuser")
	register(t, accounts, "taken")

	_, err := users.UpdateProfile(ctx, u, ProfileChanges{Bio: ptr("new bio")}, "wrong")
	assert.True(t, errors.Is(err, models.ErrValidation))

	updated, err := users.UpdateProfile(ctx, u, ProfileChanges{Bio: ptr("new bio"), Location: ptr("Paris")}, "password")
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "Paris", updated.Location)
	assert.Equal(t, "testuser", updated.Username)

	_, err = users.UpdateProfile(ctx, u, ProfileChanges{Username: ptr("taken")}, "password")
	assert.True(t, errors.Is(err, models.ErrIntegrity))

	got, err := db.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "testuser", got.Username)

	_, err = users.UpdateProfile(ctx, nil, ProfileChanges{}, "password")
	assert.True(t, errors.Is(err, models.ErrUnauthorized))
}

func TestUserService_Delete(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db, testHasher())
	users := NewUserService(db, testHasher())
	messages := NewMessageService(db, nil)
	ctx := context.Background()

	u := register(t, accounts, "testuser")
	_, err := messages.Create(ctx, u, "bye")
	require.NoError(t, err)

	assert.True(t, errors.Is(users.Delete(ctx, nil), models.ErrUnauthorized))
	require.NoError(t, users.Delete(ctx, u))

	_, err = db.GetUser(ctx, u.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	n, err := db.CountUserMessages(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserService_UpdateProfileClearsFields(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountService(db, testHasher())
	users := NewUserService(db, testHasher())
	ctx := context.Background()

	u := register(t, accounts, "testuser")
	_, err := users.UpdateProfile(ctx, u, ProfileChanges{
		Bio:      ptr("bio"),
		Location: ptr("Paris"),
		ImageURL: ptr("/static/images/me.png"),
	}, "password")
	require.NoError(t, err)

	// Nil fields keep their value.
	updated, err := users.UpdateProfile(ctx, u, ProfileChanges{Location: ptr("Lyon")}, "password")
	require.NoError(t, err)
	assert.Equal(t, "bio", updated.Bio)
	assert.Equal(t, "Lyon", updated.Location)

	updated, err = users.UpdateProfile(ctx, u, ProfileChanges{
		Bio:      ptr(""),
		Location: ptr(""),
		ImageURL: ptr(""),
	}, "password")
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)
	assert.Empty(t, updated.Location)
	assert.Equal(t, models.DefaultImageURL, updated.ImageURL)

	got, err := db.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Bio)
	assert.Empty(t, got.Location)
	assert.Equal(t, "testuser", got.Username)

	_, err = users.UpdateProfile(ctx, u, ProfileChanges{Username: ptr("")}, "password")
	assert.True(t, errors.Is(err, models.ErrIntegrity))
}
