package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreateDefaults(t *testing.T) {
	u := &User{Username: "usertest", Email: "test@email.com", Password: "hash"}
	assert.NoError(t, u.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, DefaultImageURL, u.ImageURL)
	assert.Equal(t, DefaultHeaderImageURL, u.HeaderImageURL)

	custom := &User{ID: uuid.New(), ImageURL: "/me.png"}
	id := custom.ID
	assert.NoError(t, custom.BeforeCreate(nil))
	assert.Equal(t, id, custom.ID)
	assert.Equal(t, "/me.png", custom.ImageURL)
}

func TestUser_String(t *testing.T) {
	u := User{ID: uuid.New(), Username: "usertest", Email: "test@email.com"}
	s := u.String()

	assert.Contains(t, s, "User")
	assert.Contains(t, s, "usertest")
	assert.Contains(t, s, "test@email.com")
}

func TestMessage_BeforeCreateSetsTimestamp(t *testing.T) {
	m := &Message{Text: "hello"}
	assert.NoError(t, m.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.False(t, m.Timestamp.IsZero())
}

func TestAppError_Is(t *testing.T) {
	wrapped := fmt.Errorf("delete message: %w", ErrUnauthorized)
	assert.True(t, errors.Is(wrapped, ErrUnauthorized))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	v := NewValidationError("Password must not be empty")
	assert.True(t, errors.Is(v, ErrValidation))
	assert.Equal(t, CodeValidation, Code(v))

	i := NewIntegrityError(errors.New("UNIQUE constraint failed: users.username"))
	assert.True(t, errors.Is(i, ErrIntegrity))
	assert.Contains(t, i.Error(), "UNIQUE constraint failed")

	assert.Equal(t, CodeInternal, Code(errors.New("boom")))
}
