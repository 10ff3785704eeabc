package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
)

// GetActiveOrdersQueryHandler retrieves non-terminal orders from the
// database, oldest first.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all active orders.
// Returns orders in "confirmed", "preparing" or "picked_up" status, sorted
// by creation time for stable output.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			driver_id,
			created_at
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY created_at, id
	`, order.Delivered.String(), order.Cancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			status    string
			driverID  *uuid.UUID
			createdAt time.Time
		)

		if err = rows.Scan(&id, &status, &driverID, &createdAt); err != nil {
			return nil, err
		}

		resp, mapErr := mapActiveOrderRow(id, status, driverID, createdAt)
		if mapErr != nil {
			return nil, mapErr
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func mapActiveOrderRow(id uuid.UUID, status string, driverID *uuid.UUID, createdAt time.Time) (GetActiveOrdersQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetActiveOrdersQueryResponse{}, err
	}

	orderStatus, err := order.StatusFromString(status)
	if err != nil {
		return GetActiveOrdersQueryResponse{}, err
	}

	resp := GetActiveOrdersQueryResponse{
		ID:        orderID,
		Status:    orderStatus,
		CreatedAt: createdAt,
	}

	if driverID != nil {
		driver, idErr := kernel.UUIDFromBytes(driverID[:])
		if idErr != nil {
			return GetActiveOrdersQueryResponse{}, idErr
		}
		resp.DriverID = &driver
	}

	return resp, nil
}
