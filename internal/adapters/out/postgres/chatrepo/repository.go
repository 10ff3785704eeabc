package chatrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/pkg/errs"
)

// GormChatRepository implements ChatRepository using GORM.
type GormChatRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormChatRepository creates a new GORM chat repository.
func NewGormChatRepository(db *gorm.DB, tracker aggregateTracker) *GormChatRepository {
	return &GormChatRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new message to the database.
func (r *GormChatRepository) Add(ctx context.Context, message *chat.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto := fromDomain(message)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(message.ID(), message)
	return nil
}

// Get retrieves a message by ID.
func (r *GormChatRepository) Get(ctx context.Context, id kernel.UUID) (*chat.Message, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto MessageDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("message", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetConversation retrieves all messages of a conversation, oldest first.
func (r *GormChatRepository) GetConversation(ctx context.Context, key chat.ConversationKey) ([]*chat.Message, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("conversation = ?", key.String()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*chat.Message, 0, len(dtos))
	for _, dto := range dtos {
		message, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, nil
}

// MarkDelivered flips the delivery flag of a message to true. The update is
// idempotent: the flag never moves back and repeating the call changes
// nothing.
func (r *GormChatRepository) MarkDelivered(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id = ?", id.Bytes()).
		Update("delivered", true)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("message", id.String())
	}

	return nil
}
