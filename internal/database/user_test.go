package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/warbler/internal/models"
)

func TestUser_SaveAndGet(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	u := createUser(t, d, "usertest")
	assert.NotEqual(t, uuid.Nil, u.ID)

	got, err := d.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "usertest", got.Username)
	assert.Equal(t, models.DefaultImageURL, got.ImageURL)
	assert.Equal(t, models.DefaultHeaderImageURL, got.HeaderImageURL)

	_, err = d.GetUser(ctx, uuid.New())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUser_NewUserHasNoMessagesOrFollowers(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, d, "testuser")

	n, err := d.CountUserMessages(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	followers, err := d.FollowersOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestUser_Constraints(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	createUser(t, d, "taken")

	tests := []struct {
		name string
		user models.User
	}{
		{name: "duplicate username", user: models.User{Username: "taken", Email: "other@email.com", Password: "x"}},
		{name: "duplicate email", user: models.User{Username: "other", Email: "taken@email.com", Password: "x"}},
		{name: "blank username", user: models.User{Username: "", Email: "blank@email.com", Password: "x"}},
		{name: "blank email", user: models.User{Username: "blank", Email: "", Password: "x"}},
		{name: "blank password", user: models.User{Username: "nopass", Email: "nopass@email.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := d.SaveUser(ctx, &u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrIntegrity), "got %v", err)
		})
	}

	users, err := d.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestUser_FindByUsername(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	createUser(t, d, "usertest")

	u, err := d.FindUserByUsername(ctx, "usertest")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "usertest@email.com", u.Email)

	u, err = d.FindUserByUsername(ctx, "badUser")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUser_ListSearch(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	createUser(t, d, "testuser")
	createUser(t, d, "user2")
	createUser(t, d, "user3")

	all, err := d.ListUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "testuser", all[0].Username)

	matched, err := d.ListUsers(ctx, "user")
	require.NoError(t, err)
	assert.Len(t, matched, 3)

	matched, err = d.ListUsers(ctx, "2")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "user2", matched[0].Username)
}

func TestUser_Update(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, d, "usertest")
	createUser(t, d, "other")

	u.Bio = "hello there"
	u.Location = "Oslo"
	require.NoError(t, d.UpdateUser(ctx, u))

	got, err := d.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello there", got.Bio)
	assert.Equal(t, "Oslo", got.Location)

	u.Username = "other"
	err = d.UpdateUser(ctx, u)
	assert.True(t, errors.Is(err, models.ErrIntegrity))
}

func TestUser_DeleteCascades(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u1 := createUser(t, d, "u1")
	u2 := createUser(t, d, "u2")

	m1 := createMessage(t, d, u1, "from u1")
	m2 := createMessage(t, d, u2, "from u2")
	require.NoError(t, d.Follow(ctx, u1.ID, u2.ID))
	require.NoError(t, d.Follow(ctx, u2.ID, u1.ID))
	require.NoError(t, d.AddLike(ctx, u2.ID, m1.ID))
	require.NoError(t, d.AddLike(ctx, u1.ID, m2.ID))

	require.NoError(t, d.DeleteUser(ctx, u1.ID))

	_, err := d.GetUser(ctx, u1.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	_, err = d.GetMessage(ctx, m1.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	followers, following, err := d.FollowCounts(ctx, u2.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)
	assert.Zero(t, following)

	liked, err := d.LikedMessageIDs(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)
	n, err := d.CountLikes(ctx, m2.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	err = d.DeleteUser(ctx, u1.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
