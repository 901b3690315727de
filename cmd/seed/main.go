// Command seed fills the database with fake users, follows, messages and likes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"math/rand"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/thereayou/warbler/internal/config"
	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/logger"
	"github.com/thereayou/warbler/internal/models"
	"github.com/thereayou/warbler/internal/services"
	"github.com/thereayou/warbler/pkg/auth"
)

func main() {
	numUsers := flag.Int("users", 50, "number of users to create")
	numMessages := flag.Int("messages", 300, "number of messages to create")
	password := flag.String("password", "password", "password for every seeded user")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := run(context.Background(), db, *numUsers, *numMessages, *password, *seed); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

// summary counts the rows run actually wrote.
type summary struct {
	Users, Follows, Messages, Likes int
}

func run(ctx context.Context, db *database.Database, numUsers, numMessages int, password string, seed int64) (summary, error) {
	var sum summary
	faker := gofakeit.New(seed)
	rng := rand.New(rand.NewSource(faker.Int64()))
	// Seeding hashes every password; the minimum cost keeps that fast.
	accounts := services.NewAccountService(db, auth.NewPasswordHasher(4))

	users := make([]*models.User, 0, numUsers)
	for len(users) < numUsers {
		u, err := accounts.Signup(faker.Username(), faker.Email(), password, "")
		if err != nil {
			return sum, err
		}
		u.Bio = faker.Sentence(8)
		u.Location = faker.City()

		if err := db.SaveUser(ctx, u); err != nil {
			if models.Code(err) == models.CodeIntegrity {
				continue // username or email collision, draw again
			}
			return sum, err
		}
		users = append(users, u)
	}
	slog.Info("seeded users", "count", len(users))
	sum.Users = len(users)
	if len(users) < 2 {
		return sum, nil
	}

	follows := 0
	for _, u := range users {
		n := rng.Intn(len(users)/2 + 1)
		for i := 0; i < n; i++ {
			target := users[rng.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			created, err := db.CreateFollow(ctx, u.ID, target.ID)
			if err != nil {
				return sum, err
			}
			if created {
				follows++
			}
		}
	}
	slog.Info("seeded follows", "count", follows)
	sum.Follows = follows

	messages := make([]*models.Message, 0, numMessages)
	for i := 0; i < numMessages; i++ {
		text := faker.Sentence(rng.Intn(12) + 3)
		if len(text) > models.MaxMessageLength {
			text = text[:models.MaxMessageLength]
		}
		m := &models.Message{
			Text:      text,
			UserID:    users[rng.Intn(len(users))].ID,
			Timestamp: faker.PastDate().UTC(),
		}
		if err := db.SaveMessage(ctx, m); err != nil {
			return sum, err
		}
		messages = append(messages, m)
	}
	slog.Info("seeded messages", "count", len(messages))
	sum.Messages = len(messages)

	likes := 0
	for _, m := range messages {
		fan := users[rng.Intn(len(users))]
		if fan.ID == m.UserID {
			continue
		}
		if err := db.AddLike(ctx, fan.ID, m.ID); err != nil {
			if models.Code(err) == models.CodeIntegrity {
				continue
			}
			return sum, err
		}
		likes++
	}
	slog.Info("seeded likes", "count", likes)
	sum.Likes = likes
	return sum, nil
}
