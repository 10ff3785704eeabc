package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"foodfast/internal/core/domain/model/kernel"
)

// GetChatHistoryQueryHandler reads a conversation's messages from the
// database in creation order.
type GetChatHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetChatHistoryQueryHandler creates a handler for chat history queries.
func NewGetChatHistoryQueryHandler(db *gorm.DB) GetChatHistoryQueryHandler {
	return GetChatHistoryQueryHandler{db: db}
}

type chatHistoryRow struct {
	ID         uuid.UUID `gorm:"column:id"`
	SenderID   uuid.UUID `gorm:"column:sender_id"`
	ReceiverID uuid.UUID `gorm:"column:receiver_id"`
	Body       string    `gorm:"column:body"`
	Delivered  bool      `gorm:"column:delivered"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// Handle executes the history query. Messages come back oldest first so the
// client can replay the dialog in order.
func (h GetChatHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetChatHistoryQuery,
) ([]GetChatHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var messageRows []chatHistoryRow
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sender_id,
			receiver_id,
			body,
			delivered,
			created_at
		FROM chat_messages
		WHERE conversation = ?
		ORDER BY created_at, id
	`, query.Conversation().String()).Scan(&messageRows).Error
	if err != nil {
		return nil, err
	}

	var mapErr error
	messages := lo.Map(messageRows, func(row chatHistoryRow, _ int) GetChatHistoryQueryResponse {
		resp, err := mapChatHistoryRow(row)
		if err != nil && mapErr == nil {
			mapErr = err
		}
		return resp
	})
	if mapErr != nil {
		return nil, mapErr
	}

	return messages, nil
}

func mapChatHistoryRow(row chatHistoryRow) (GetChatHistoryQueryResponse, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return GetChatHistoryQueryResponse{}, err
	}

	senderID, err := kernel.UUIDFromBytes(row.SenderID[:])
	if err != nil {
		return GetChatHistoryQueryResponse{}, err
	}

	receiverID, err := kernel.UUIDFromBytes(row.ReceiverID[:])
	if err != nil {
		return GetChatHistoryQueryResponse{}, err
	}

	return GetChatHistoryQueryResponse{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       row.Body,
		Delivered:  row.Delivered,
		CreatedAt:  row.CreatedAt,
	}, nil
}
