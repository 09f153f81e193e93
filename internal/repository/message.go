// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Message, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error)
	List(ctx context.Context, limit, offset int) ([]*models.Message, error)
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, messageID uint) (bool, error)
	GetLikedMessageIDs(ctx context.Context, userID uint, messageIDs []uint) ([]uint, error)
	Like(ctx context.Context, userID, messageID uint) error
	Unlike(ctx context.Context, userID, messageID uint) error
	LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error)
}

// messageRepository implements MessageRepository
type messageRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db, metrics: observability.NewDatabaseMetrics(db)}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Message, error) {
	var message models.Message
	key := cache.MessageKey(id)

	var err error
	if currentUserID == 0 {
		// Cache the bare message only. The author row is loaded fresh on
		// every read so a profile edit or account deletion never serves a
		// stale embedded user for the remainder of the TTL.
		err = cache.Aside(ctx, key, &message, cache.MessageTTL, func() error {
			return r.db.WithContext(ctx).First(&message, id).Error
		})
		if err == nil {
			err = r.db.WithContext(ctx).First(&message.User, message.UserID).Error
		}
	} else {
		err = r.db.WithContext(ctx).Preload("User").First(&message, id).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}

	if currentUserID != 0 {
		liked, likedErr := r.IsLiked(ctx, currentUserID, id)
		if likedErr != nil {
			return nil, likedErr
		}
		message.Liked = liked
	}
	return &message, nil
}

func (r *messageRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("select", "messages")()

	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) List(ctx context.Context, limit, offset int) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("select", "messages")()

	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// Delete removes the message and its likes so nothing dangles.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, id)
	return nil
}

func (r *messageRepository) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *messageRepository) GetLikedMessageIDs(ctx context.Context, userID uint, messageIDs []uint) ([]uint, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var likedIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &likedIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likedIDs, nil
}

// Like inserts the edge. INSERT ... ON CONFLICT DO NOTHING makes re-liking
// an atomic no-op and avoids duplicate key errors under races.
func (r *messageRepository) Like(ctx context.Context, userID, messageID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, message_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, message_id) DO NOTHING`,
		userID, messageID, time.Now().UTC(),
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateMessage(ctx, messageID)
	return nil
}

// Unlike removes the edge; deleting an absent edge is a no-op.
func (r *messageRepository) Unlike(ctx context.Context, userID, messageID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, messageID)
	return nil
}

// LikedMessages returns the messages a user has liked, most recent like first.
func (r *messageRepository) LikedMessages(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("select", "likes")()

	var messages []*models.Message
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
