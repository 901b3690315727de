package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/models"
	"github.com/thereayou/warbler/pkg/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:?_foreign_keys=on"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

func register(t *testing.T, accounts *AccountService, username string) *models.User {
	t.Helper()
	u, err := accounts.Register(context.Background(), username, username+"@email.com", "password", "")
	require.NoError(t, err)
	return u
}

// recordingFeed captures live-feed publications.
type recordingFeed struct {
	mu      sync.Mutex
	created map[uuid.UUID][]uuid.UUID
	deleted map[uuid.UUID][]uuid.UUID
}

func newRecordingFeed() *recordingFeed {
	return &recordingFeed{
		created: make(map[uuid.UUID][]uuid.UUID),
		deleted: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *recordingFeed) PublishMessageCreated(msg *models.Message, recipients []uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created[msg.ID] = recipients
}

func (f *recordingFeed) PublishMessageDeleted(messageID, _ uuid.UUID, recipients []uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[messageID] = recipients
}

func ptr(s string) *string { return &s }
