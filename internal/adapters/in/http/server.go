// Package http exposes the order, chat, and upload workflows over REST plus
// server-sent event streams for the live surfaces.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/core/application/usecases/queries"
	"foodfast/internal/core/domain/model/kernel"
	"foodfast/internal/core/domain/model/order"
	"foodfast/internal/core/domain/services"
	"foodfast/internal/pkg/errs"
	"foodfast/internal/realtime"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	assignDriverHandler    commands.AssignDriverCommandHandler
	sendMessageHandler     commands.SendMessageCommandHandler
	submitUploadHandler    commands.SubmitUploadCommandHandler

	// Query handlers
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getChatHistoryHandler  queries.GetChatHistoryQueryHandler
	getJobStatusHandler    queries.GetJobStatusQueryHandler

	// Live surfaces
	streams *Streams
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	sendMessageHandler commands.SendMessageCommandHandler,
	submitUploadHandler commands.SubmitUploadCommandHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getChatHistoryHandler queries.GetChatHistoryQueryHandler,
	getJobStatusHandler queries.GetJobStatusQueryHandler,
	streams *Streams,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		assignDriverHandler:    assignDriverHandler,
		sendMessageHandler:     sendMessageHandler,
		submitUploadHandler:    submitUploadHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		getChatHistoryHandler:  getChatHistoryHandler,
		getJobStatusHandler:    getJobStatusHandler,
		streams:                streams,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:orderId/status", s.TransitionOrder)
	api.POST("/orders/:orderId/driver", s.AssignDriver)
	api.POST("/orders/:orderId/location", s.ReportLocation)
	api.GET("/orders/:orderId/events", s.streams.StreamOrderEvents)
	api.GET("/orders/:orderId/location/stream", s.streams.StreamDriverLocation)

	api.POST("/chat/messages", s.SendMessage)
	api.GET("/chat/history", s.GetChatHistory)
	api.GET("/chat/stream", s.streams.StreamChat)

	api.POST("/restaurants/:restaurantId/menu-images", s.UploadMenuImage)
	api.GET("/uploads/:jobId", s.GetJobStatus)
	api.GET("/uploads/:jobId/events", s.streams.StreamJobEvents)
}

// CreateOrder handles POST /api/v1/orders - places a new order in Confirmed.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer_id")
	}
	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid restaurant_id")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, restaurantID)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// TransitionOrder handles POST /api/v1/orders/:orderId/status - advances the
// order lifecycle by exactly one step.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req TransitionOrderRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Unknown status: "+req.Status)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	if handleErr := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to transition order")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignDriver handles POST /api/v1/orders/:orderId/driver.
func (s *Server) AssignDriver(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req AssignDriverRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver_id")
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid assignment data: "+err.Error())
	}

	if handleErr := s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to assign driver")
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportLocation handles POST /api/v1/orders/:orderId/location - ingests a
// driver position for an in-flight delivery.
func (s *Server) ReportLocation(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req ReportLocationRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, "Invalid driver_id")
	}

	point, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates")
	}

	err = s.streams.PublishLocation(ctx.Request().Context(), realtime.LocationUpdate{
		OrderID:  orderID,
		DriverID: driverID,
		Point:    point,
	})
	if err != nil {
		return writeError(ctx, err, "Failed to record location")
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve orders")
	}

	response := lo.Map(orders, func(o queries.GetActiveOrdersQueryResponse, _ int) OrderResponse {
		return OrderResponse{
			ID:        o.ID.String(),
			Status:    o.Status.String(),
			DriverID:  uuidString(o.DriverID),
			CreatedAt: o.CreatedAt,
		}
	})

	return ctx.JSON(http.StatusOK, response)
}

// SendMessage handles POST /api/v1/chat/messages. A message carrying an
// order_id goes to that order's support thread instead of the direct dialog.
func (s *Server) SendMessage(ctx echo.Context) error {
	var req SendMessageRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return badRequest(ctx, "Invalid request body: "+err.Error())
	}

	senderID, err := kernel.UUIDFromString(req.SenderID)
	if err != nil {
		return badRequest(ctx, "Invalid sender_id")
	}
	receiverID, err := kernel.UUIDFromString(req.ReceiverID)
	if err != nil {
		return badRequest(ctx, "Invalid receiver_id")
	}

	messageID := kernel.NewUUID()
	var cmd commands.SendMessageCommand
	if req.OrderID != "" {
		orderID, idErr := kernel.UUIDFromString(req.OrderID)
		if idErr != nil {
			return badRequest(ctx, "Invalid order_id")
		}
		cmd, err = commands.NewSupportMessageCommand(messageID, senderID, receiverID, orderID, req.Body)
	} else {
		cmd, err = commands.NewSendMessageCommand(messageID, senderID, receiverID, req.Body)
	}
	if err != nil {
		return badRequest(ctx, "Invalid message data: "+err.Error())
	}

	if handleErr := s.sendMessageHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to send message")
	}

	return ctx.JSON(http.StatusCreated, SendMessageResponse{MessageID: messageID.String()})
}

// GetChatHistory handles GET /api/v1/chat/history - returns a conversation
// oldest first. Pass participant_a and participant_b for a direct dialog, or
// order_id for an order's support thread.
func (s *Server) GetChatHistory(ctx echo.Context) error {
	query, err := chatHistoryQuery(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	history, err := s.getChatHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve history")
	}

	response := lo.Map(history, func(m queries.GetChatHistoryQueryResponse, _ int) MessageResponse {
		return MessageResponse{
			ID:         m.ID.String(),
			SenderID:   m.SenderID.String(),
			ReceiverID: m.ReceiverID.String(),
			Body:       m.Body,
			Delivered:  m.Delivered,
			CreatedAt:  m.CreatedAt,
		}
	})

	return ctx.JSON(http.StatusOK, response)
}

func chatHistoryQuery(ctx echo.Context) (queries.GetChatHistoryQuery, error) {
	if raw := ctx.QueryParam("order_id"); raw != "" {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return queries.GetChatHistoryQuery{}, errors.New("Invalid order_id")
		}
		return queries.NewSupportChatHistoryQuery(orderID)
	}

	participantA, err := kernel.UUIDFromString(ctx.QueryParam("participant_a"))
	if err != nil {
		return queries.GetChatHistoryQuery{}, errors.New("Invalid participant_a")
	}
	participantB, err := kernel.UUIDFromString(ctx.QueryParam("participant_b"))
	if err != nil {
		return queries.GetChatHistoryQuery{}, errors.New("Invalid participant_b")
	}

	return queries.NewGetChatHistoryQuery(participantA, participantB)
}

// UploadMenuImage handles POST /api/v1/restaurants/:restaurantId/menu-images.
// The image arrives as the "image" part of a multipart form; acceptance only
// means the raw bytes are stored and a processing job is queued.
func (s *Server) UploadMenuImage(ctx echo.Context) error {
	restaurantID, err := pathUUID(ctx, "restaurantId")
	if err != nil {
		return badRequest(ctx, "Invalid restaurant id")
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return badRequest(ctx, "Missing image part")
	}

	if fileHeader.Size > commands.MaxUploadSize {
		return ctx.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Code:    http.StatusRequestEntityTooLarge,
			Message: "Image exceeds the upload size limit",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(ctx, err, "Failed to read image")
	}
	defer func() { _ = file.Close() }()

	jobID := kernel.NewUUID()
	cmd, err := commands.NewSubmitUploadCommand(jobID, restaurantID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		return writeError(ctx, err, "Invalid upload")
	}

	if handleErr := s.submitUploadHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr, "Failed to accept upload")
	}

	return ctx.JSON(http.StatusAccepted, UploadResponse{JobID: jobID.String()})
}

// GetJobStatus handles GET /api/v1/uploads/:jobId.
func (s *Server) GetJobStatus(ctx echo.Context) error {
	jobID, err := pathUUID(ctx, "jobId")
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	query, err := queries.NewGetJobStatusQuery(jobID)
	if err != nil {
		return badRequest(ctx, "Invalid job id")
	}

	job, err := s.getJobStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err, "Failed to retrieve job")
	}

	return ctx.JSON(http.StatusOK, JobStatusResponse{
		JobID:       job.ID.String(),
		Status:      job.Status.String(),
		FailReason:  job.FailReason,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	})
}

// bindAndValidate fills req from the request body and checks its validation
// tags. It only reports the failure; the caller writes the 400.
func bindAndValidate(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return errors.New("malformed request body")
	}
	if err := ctx.Validate(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if msg, ok := httpErr.Message.(string); ok {
				return errors.New(msg)
			}
		}
		return errors.New("validation failed")
	}
	return nil
}

func pathUUID(ctx echo.Context, param string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(param))
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain and application errors onto HTTP statuses. Unmapped
// errors surface as 500 with the fallback message so internals do not leak.
func writeError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrDriverAssignmentNotAllowed),
		errors.Is(err, services.ErrAssignmentRejected):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrPreconditionUnmet):
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrInvalidUpload):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, commands.ErrStorageUnavailable):
		return ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    http.StatusServiceUnavailable,
			Message: "Storage is temporarily unavailable",
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: fallback,
		})
	}
}
