package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/database"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/models"
)

// TimelineLimit caps the home feed.
const TimelineLimit = 100

// FeedPublisher pushes message events to connected recipients.
type FeedPublisher interface {
	PublishMessageCreated(msg *models.Message, recipients []uuid.UUID)
	PublishMessageDeleted(messageID, authorID uuid.UUID, recipients []uuid.UUID)
}

type MessageService struct {
	db     *database.Database
	feed   FeedPublisher
	logger *slog.Logger
}

// NewMessageService builds the service. feed may be nil.
func NewMessageService(db *database.Database, feed FeedPublisher) *MessageService {
	return &MessageService{
		db:     db,
		feed:   feed,
		logger: slog.Default().With("service", "message"),
	}
}

// Create posts a warble as identity. Text length is enforced by storage.
func (s *MessageService) Create(ctx context.Context, identity *models.User, text string) (*models.Message, error) {
	if err := RequireIdentity(identity); err != nil {
		return nil, err
	}

	msg := &models.Message{Text: text, UserID: identity.ID}
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		return tx.SaveMessage(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	msg.User = *identity

	s.logger.InfoContext(ctx, "message created", "message_id", msg.ID, "user_id", identity.ID)
	metrics.RecordEvent(metrics.EventMessageCreated)

	if s.feed != nil {
		s.feed.PublishMessageCreated(msg, s.audience(ctx, identity.ID))
	}
	return msg, nil
}

func (s *MessageService) Get(ctx context.Context, messageID uuid.UUID) (*models.Message, error) {
	return s.db.GetMessage(ctx, messageID)
}

// MessageView is a message with its like count and whether identity likes it.
type MessageView struct {
	Message *models.Message
	Likes   int64
	Liked   bool
}

// Show loads a message for display. identity may be nil.
func (s *MessageService) Show(ctx context.Context, identity *models.User, messageID uuid.UUID) (*MessageView, error) {
	msg, err := s.Get(ctx, messageID)
	if err != nil {
		return nil, err
	}
	view := &MessageView{Message: msg}
	if view.Likes, err = s.db.CountLikes(ctx, messageID); err != nil {
		return nil, err
	}
	if identity != nil {
		if view.Liked, err = s.db.HasLiked(ctx, identity.ID, messageID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// Delete removes a message. Only its author may do so.
func (s *MessageService) Delete(ctx context.Context, identity *models.User, messageID uuid.UUID) error {
	if err := RequireIdentity(identity); err != nil {
		return err
	}

	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		msg, err := tx.GetMessage(ctx, messageID)
		if err != nil {
			return err
		}
		if err := RequireOwner(identity, msg); err != nil {
			return err
		}
		return tx.DeleteMessage(ctx, messageID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "message deleted", "message_id", messageID, "user_id", identity.ID)
	metrics.RecordEvent(metrics.EventMessageDeleted)

	if s.feed != nil {
		s.feed.PublishMessageDeleted(messageID, identity.ID, s.audience(ctx, identity.ID))
	}
	return nil
}

// Timeline is the home feed: identity's own messages and those of everyone it
// follows, newest first. Anonymous visitors get an empty feed.
func (s *MessageService) Timeline(ctx context.Context, identity *models.User) ([]models.Message, error) {
	if identity == nil {
		return []models.Message{}, nil
	}
	return s.db.Timeline(ctx, identity.ID, TimelineLimit)
}

// LikedIDs returns the ids of messages identity likes, used to mark a feed.
func (s *MessageService) LikedIDs(ctx context.Context, identity *models.User) ([]uuid.UUID, error) {
	if identity == nil {
		return []uuid.UUID{}, nil
	}
	return s.db.LikedMessageIDs(ctx, identity.ID)
}

// ToggleLike likes the message, or removes an existing like, and reports the new state.
// Users cannot like their own messages.
func (s *MessageService) ToggleLike(ctx context.Context, identity *models.User, messageID uuid.UUID) (bool, error) {
	if err := RequireIdentity(identity); err != nil {
		return false, err
	}

	var liked bool
	err := s.db.Transaction(ctx, func(tx *database.Database) error {
		msg, err := tx.GetMessage(ctx, messageID)
		if err != nil {
			return err
		}
		if msg.UserID == identity.ID {
			return models.NewValidationError("You cannot like your own message.")
		}

		removed, err := tx.RemoveLike(ctx, identity.ID, messageID)
		if err != nil {
			return err
		}
		if removed {
			liked = false
			return nil
		}
		liked = true
		return tx.AddLike(ctx, identity.ID, messageID)
	})
	if err != nil {
		return false, err
	}

	if liked {
		metrics.RecordEvent(metrics.EventMessageLiked)
	} else {
		metrics.RecordEvent(metrics.EventMessageUnliked)
	}
	s.logger.InfoContext(ctx, "like toggled", "message_id", messageID, "user_id", identity.ID, "liked", liked)
	return liked, nil
}

// audience is the author plus the author's followers. Lookup failures only cost
// the live push, so they are logged and the author alone is notified.
func (s *MessageService) audience(ctx context.Context, authorID uuid.UUID) []uuid.UUID {
	followers, err := s.db.FollowerIDs(ctx, authorID)
	if err != nil {
		s.logger.WarnContext(ctx, "could not load followers for live feed", "user_id", authorID, "error", err)
		return []uuid.UUID{authorID}
	}
	return append([]uuid.UUID{authorID}, followers...)
}
