package http

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so request DTOs are checked on Bind+Validate.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the validator used by the HTTP server.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID   string `json:"customer_id"   validate:"required,uuid"`
	RestaurantID string `json:"restaurant_id" validate:"required,uuid"`
}

// CreateOrderResponse returns the identifier of the created order.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
}

// TransitionOrderRequest is the body of POST /api/v1/orders/:orderId/status.
type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed preparing picked_up delivered cancelled"`
}

// AssignDriverRequest is the body of POST /api/v1/orders/:orderId/driver.
type AssignDriverRequest struct {
	DriverID string `json:"driver_id" validate:"required,uuid"`
}

// ReportLocationRequest is the body of POST /api/v1/orders/:orderId/location.
type ReportLocationRequest struct {
	DriverID string  `json:"driver_id" validate:"required,uuid"`
	Lat      float64 `json:"lat"       validate:"min=-90,max=90"`
	Lon      float64 `json:"lon"       validate:"min=-180,max=180"`
}

// OrderResponse is one element of the active order listing.
type OrderResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	DriverID  *string   `json:"driver_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderEventResponse is the SSE payload for order lifecycle events.
type OrderEventResponse struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	DriverID   *string   `json:"driver_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LocationResponse is the SSE payload for driver position updates.
type LocationResponse struct {
	OrderID    string    `json:"order_id"`
	DriverID   string    `json:"driver_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SendMessageRequest is the body of POST /api/v1/chat/messages.
type SendMessageRequest struct {
	SenderID   string `json:"sender_id"          validate:"required,uuid"`
	ReceiverID string `json:"receiver_id"        validate:"required,uuid"`
	OrderID    string `json:"order_id,omitempty" validate:"omitempty,uuid"`
	Body       string `json:"body"               validate:"required"`
}

// SendMessageResponse returns the identifier of the stored message.
type SendMessageResponse struct {
	MessageID string `json:"message_id"`
}

// MessageResponse is a chat message in history listings and SSE payloads.
type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	Delivered  bool      `json:"delivered"`
	CreatedAt  time.Time `json:"created_at"`
}

// UploadResponse returns the identifier of the accepted upload job.
type UploadResponse struct {
	JobID string `json:"job_id"`
}

// JobStatusResponse is the body of GET /api/v1/uploads/:jobId.
type JobStatusResponse struct {
	JobID       string     `json:"job_id"`
	Status      string     `json:"status"`
	FailReason  string     `json:"fail_reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// JobEventResponse is the SSE payload for upload job progress.
type JobEventResponse struct {
	JobID      string    `json:"job_id"`
	Status     string    `json:"status"`
	FailReason string    `json:"fail_reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
