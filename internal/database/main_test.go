package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thereayou/warbler/internal/models"
	"gorm.io/driver/sqlite"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	// One connection: every pooled connection to ":memory:" would be a separate database.
	d, err := Open(sqlite.Open(":memory:?_foreign_keys=on"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createUser(t *testing.T, d *Database, name string) *models.User {
	t.Helper()
	u := &models.User{
		Username: name,
		Email:    fmt.Sprintf("%s@email.com", name),
		Password: "$2a$04$placeholderplaceholderplaceholderplaceholderpla",
	}
	require.NoError(t, d.SaveUser(context.Background(), u))
	return u
}

func createMessage(t *testing.T, d *Database, user *models.User, text string) *models.Message {
	t.Helper()
	m := &models.Message{Text: text, UserID: user.ID}
	require.NoError(t, d.SaveMessage(context.Background(), m))
	return m
}
