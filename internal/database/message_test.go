package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/warbler/internal/models"
)

func TestMessage_SaveSetsTimestampAndOwner(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, d, "testuser")

	before := time.Now().Add(-time.Second)
	m := createMessage(t, d, u, "testing text")

	got, err := d.GetMessage(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "testing text", got.Text)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, "testuser", got.User.Username)
	assert.True(t, got.Timestamp.After(before))

	n, err := d.CountUserMessages(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMessage_Constraints(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, d, "testuser")

	tests := []struct {
		name string
		msg  models.Message
	}{
		{name: "missing user", msg: models.Message{Text: "bad test text"}},
		{name: "unknown user", msg: models.Message{Text: "bad test text", UserID: uuid.New()}},
		{name: "missing text", msg: models.Message{UserID: u.ID}},
		{name: "text too long", msg: models.Message{Text: strings.Repeat("a", models.MaxMessageLength+1), UserID: u.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.msg
			err := d.SaveMessage(ctx, &m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrIntegrity), "got %v", err)
		})
	}

	// The failed inserts left nothing behind and the connection is still usable.
	n, err := d.CountUserMessages(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	createMessage(t, d, u, strings.Repeat("a", models.MaxMessageLength))
}

func TestMessage_TransactionRollsBack(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, d, "testuser")

	err := d.Transaction(ctx, func(tx *Database) error {
		if err := tx.SaveMessage(ctx, &models.Message{Text: "staged", UserID: u.ID}); err != nil {
			return err
		}
		return tx.SaveMessage(ctx, &models.Message{Text: "orphan"})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrIntegrity))

	n, err := d.CountUserMessages(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "staged message must not survive the rollback")
}

func TestMessage_Delete(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	u := createUser(t, d, "testuser")
	liker := createUser(t, d, "liker")
	m := createMessage(t, d, u, "test message")
	require.NoError(t, d.AddLike(ctx, liker.ID, m.ID))

	require.NoError(t, d.DeleteMessage(ctx, m.ID))

	_, err := d.GetMessage(ctx, m.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	n, err := d.CountUserMessages(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	liked, err := d.LikedMessageIDs(ctx, liker.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)

	err = d.DeleteMessage(ctx, m.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestMessage_UserMessagesAndTimeline(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	me := createUser(t, d, "me")
	friend := createUser(t, d, "friend")
	stranger := createUser(t, d, "stranger")

	base := time.Now().Add(-time.Hour)
	for i, row := range []struct {
		user *models.User
		text string
	}{
		{me, "mine 1"}, {friend, "friend 1"}, {stranger, "stranger 1"}, {me, "mine 2"},
	} {
		m := &models.Message{Text: row.text, UserID: row.user.ID, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, d.SaveMessage(ctx, m))
	}
	require.NoError(t, d.Follow(ctx, me.ID, friend.ID))

	mine, err := d.UserMessages(ctx, me.ID, 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "mine 2", mine[0].Text)

	feed, err := d.Timeline(ctx, me.ID, 100)
	require.NoError(t, err)
	texts := make([]string, 0, len(feed))
	for _, m := range feed {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"mine 2", "friend 1", "mine 1"}, texts)
	assert.Equal(t, "friend", feed[1].User.Username)

	limited, err := d.Timeline(ctx, me.ID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
