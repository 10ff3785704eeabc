// Package chatrepo provides data transfer objects and mapping functions for
// chat message persistence.
package chatrepo

import (
	"time"

	"github.com/google/uuid"

	"foodfast/internal/core/domain/model/chat"
	"foodfast/internal/core/domain/model/kernel"
)

// MessageDTO represents the database structure for persisting chat messages.
// The conversation column is indexed because history reads always filter on
// it.
type MessageDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SenderID     uuid.UUID `gorm:"type:uuid;index"`
	ReceiverID   uuid.UUID `gorm:"type:uuid;index"`
	Conversation string    `gorm:"type:varchar(96);index"`
	Body         string    `gorm:"type:text"`
	Delivered    bool
	CreatedAt    time.Time
}

// TableName specifies the database table name for chat messages.
func (MessageDTO) TableName() string {
	return "chat_messages"
}

func fromDomain(message *chat.Message) MessageDTO {
	return MessageDTO{
		ID:           message.ID().Bytes(),
		SenderID:     message.SenderID().Bytes(),
		ReceiverID:   message.ReceiverID().Bytes(),
		Conversation: message.Conversation().String(),
		Body:         message.Body(),
		Delivered:    message.Delivered(),
		CreatedAt:    message.CreatedAt(),
	}
}

func toDomain(dto MessageDTO) (*chat.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	senderID, err := kernel.UUIDFromBytes(dto.SenderID[:])
	if err != nil {
		return nil, err
	}

	receiverID, err := kernel.UUIDFromBytes(dto.ReceiverID[:])
	if err != nil {
		return nil, err
	}

	conversation, err := chat.ConversationKeyFromString(dto.Conversation)
	if err != nil {
		return nil, err
	}

	return chat.RestoreMessage(id, senderID, receiverID, conversation, dto.Body, dto.CreatedAt, dto.Delivered)
}
