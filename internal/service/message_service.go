package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

// MessageService handles posting, deleting and liking messages.
type MessageService struct {
	messageRepo repository.MessageRepository
	// allowSelfLikes governs whether a user may like their own message.
	allowSelfLikes bool
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, allowSelfLikes bool) *MessageService {
	return &MessageService{messageRepo: messageRepo, allowSelfLikes: allowSelfLikes}
}

// Post creates a message owned by the acting user.
func (s *MessageService) Post(ctx context.Context, actorID uint, text string) (*models.Message, error) {
	if actorID == 0 {
		return nil, models.NewUnauthorizedError("Access unauthorized")
	}
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	message := &models.Message{Text: text, UserID: actorID}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	// Reload with owner preloaded for the response.
	return s.messageRepo.GetByID(ctx, message.ID, actorID)
}

// Get returns a message by ID; currentUserID (0 for anonymous) drives the
// computed Liked flag.
func (s *MessageService) Get(ctx context.Context, id uint, currentUserID uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id, currentUserID)
}

// Delete removes a message. Only the owner may delete it.
func (s *MessageService) Delete(ctx context.Context, actorID uint, id uint) error {
	if actorID == 0 {
		return models.NewUnauthorizedError("Access unauthorized")
	}
	message, err := s.messageRepo.GetByID(ctx, id, actorID)
	if err != nil {
		return err
	}
	if message.UserID != actorID {
		return models.NewUnauthorizedError("Access unauthorized")
	}
	return s.messageRepo.Delete(ctx, id)
}

// Like asserts a like edge; re-liking is an idempotent no-op.
func (s *MessageService) Like(ctx context.Context, actorID uint, messageID uint) error {
	if actorID == 0 {
		return models.NewUnauthorizedError("Access unauthorized")
	}
	message, err := s.messageRepo.GetByID(ctx, messageID, 0)
	if err != nil {
		return err
	}
	if !s.allowSelfLikes && message.UserID == actorID {
		return models.NewValidationError("You cannot like your own warble")
	}
	return s.messageRepo.Like(ctx, actorID, messageID)
}

// Unlike removes a like edge; unliking an unliked message is a no-op.
func (s *MessageService) Unlike(ctx context.Context, actorID uint, messageID uint) error {
	if actorID == 0 {
		return models.NewUnauthorizedError("Access unauthorized")
	}
	if _, err := s.messageRepo.GetByID(ctx, messageID, 0); err != nil {
		return err
	}
	return s.messageRepo.Unlike(ctx, actorID, messageID)
}

// LikedMessages returns the messages a user has liked, most recent like first.
func (s *MessageService) LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	return s.messageRepo.LikedMessages(ctx, userID, limit, offset)
}
