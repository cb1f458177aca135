// Package http exposes the fulfillment API over Echo. The server translates
// HTTP requests into commands and queries and maps domain error kinds to
// status codes; it holds no business logic of its own.
package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	acceptOfferHandler      commands.AcceptOfferCommandHandler
	rejectOfferHandler      commands.RejectOfferCommandHandler
	startPreparingHandler   commands.StartPreparingCommandHandler
	finishPreparingHandler  commands.FinishPreparingCommandHandler
	approveSubOrderHandler  commands.ApproveSubOrderCommandHandler
	rejectSubOrderHandler   commands.RejectSubOrderCommandHandler
	deliveryProgressHandler commands.RecordDeliveryProgressCommandHandler
	cancelOrderHandler      commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler             queries.GetOrderQueryHandler
	getUndeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	acceptOfferHandler commands.AcceptOfferCommandHandler,
	rejectOfferHandler commands.RejectOfferCommandHandler,
	startPreparingHandler commands.StartPreparingCommandHandler,
	finishPreparingHandler commands.FinishPreparingCommandHandler,
	approveSubOrderHandler commands.ApproveSubOrderCommandHandler,
	rejectSubOrderHandler commands.RejectSubOrderCommandHandler,
	deliveryProgressHandler commands.RecordDeliveryProgressCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getUndeliveredOrdersHandler queries.GetUndeliveredOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		acceptOfferHandler:          acceptOfferHandler,
		rejectOfferHandler:          rejectOfferHandler,
		startPreparingHandler:       startPreparingHandler,
		finishPreparingHandler:      finishPreparingHandler,
		approveSubOrderHandler:      approveSubOrderHandler,
		rejectSubOrderHandler:       rejectSubOrderHandler,
		deliveryProgressHandler:     deliveryProgressHandler,
		cancelOrderHandler:          cancelOrderHandler,
		getOrderHandler:             getOrderHandler,
		getUndeliveredOrdersHandler: getUndeliveredOrdersHandler,
	}
}

// RegisterRoutes mounts all API routes on the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:orderID", s.GetOrder)
	api.POST("/orders/:orderID/cancel", s.CancelOrder)

	api.POST("/orders/:orderID/driver/accept", s.AcceptOffer)
	api.POST("/orders/:orderID/driver/reject", s.RejectOffer)
	api.POST("/orders/:orderID/driver/pickup", s.recordProgress(commands.DeliveryStagePickedUp))
	api.POST("/orders/:orderID/driver/out-for-delivery", s.recordProgress(commands.DeliveryStageOutForDelivery))
	api.POST("/orders/:orderID/driver/deliver", s.recordProgress(commands.DeliveryStageDelivered))

	api.POST("/store-orders/:subOrderID/start-preparing", s.StartPreparing)
	api.POST("/store-orders/:subOrderID/finish-preparing", s.FinishPreparing)
	api.POST("/store-orders/:subOrderID/approve", s.ApproveSubOrder)
	api.POST("/store-orders/:subOrderID/reject", s.RejectSubOrder)
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusResponse carries the order's aggregate status after a mutation.
type StatusResponse struct {
	Status string `json:"status"`
}

// NewItemRequest describes one line item of an order being placed.
type NewItemRequest struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// NewSubOrderRequest describes one store's portion of an order being placed.
type NewSubOrderRequest struct {
	StoreID          string           `json:"store_id"`
	DeliveryFeeCents int64            `json:"delivery_fee_cents"`
	Items            []NewItemRequest `json:"items"`
}

// NewOrderRequest is the checkout payload.
type NewOrderRequest struct {
	OrderNumber   string               `json:"order_number"`
	CustomerID    string               `json:"customer_id"`
	Street        string               `json:"street"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	PaymentMethod string               `json:"payment_method"`
	SubOrders     []NewSubOrderRequest `json:"sub_orders"`
}

// NewOrderResponse returns the identifier assigned to a placed order.
type NewOrderResponse struct {
	ID string `json:"id"`
}

// DriverRequest identifies the driver performing an assignment action.
type DriverRequest struct {
	DriverID string `json:"driver_id"`
}

// RejectSubOrderRequest carries the store's rejection reason.
type RejectSubOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrderRequest optionally names the cancelling actor.
type CancelOrderRequest struct {
	Actor string `json:"actor"`
}

// CreateOrder handles POST /api/v1/orders - places a new multi-store order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer_id: "+err.Error())
	}

	location, err := kernel.NewGeoPoint(req.Latitude, req.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid destination: "+err.Error())
	}

	paymentMethod, err := order.PaymentMethodFromString(req.PaymentMethod)
	if err != nil {
		return badRequest(ctx, "Invalid payment_method: "+err.Error())
	}

	subOrders := make([]commands.SubOrderSpec, 0, len(req.SubOrders))
	for _, sub := range req.SubOrders {
		storeID, storeErr := kernel.UUIDFromString(sub.StoreID)
		if storeErr != nil {
			return badRequest(ctx, "Invalid store_id: "+storeErr.Error())
		}

		items := make([]commands.ItemSpec, 0, len(sub.Items))
		for _, item := range sub.Items {
			productID, itemErr := kernel.UUIDFromString(item.ProductID)
			if itemErr != nil {
				return badRequest(ctx, "Invalid product_id: "+itemErr.Error())
			}
			items = append(items, commands.ItemSpec{
				ProductID: productID,
				Name:      item.Name,
				UnitPrice: kernel.NewMoney(item.UnitPriceCents),
				Quantity:  item.Quantity,
			})
		}

		subOrders = append(subOrders, commands.SubOrderSpec{
			StoreID:     storeID,
			DeliveryFee: kernel.NewMoney(sub.DeliveryFeeCents),
			Items:       items,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.OrderNumber,
		customerID,
		req.Street,
		location,
		paymentMethod,
		subOrders,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, NewOrderResponse{ID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/:orderID - composite status view.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveOrders handles GET /api/v1/orders/active - undelivered orders.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetUndeliveredOrdersQuery()

	orders, err := s.getUndeliveredOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// AcceptOffer handles POST /api/v1/orders/:orderID/driver/accept.
// First valid accept wins; losers get 409.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	orderID, driverID, err := s.bindDriverAction(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewAcceptOfferCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	status, err := s.acceptOfferHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusResponse{Status: status.String()})
}

// RejectOffer handles POST /api/v1/orders/:orderID/driver/reject.
func (s *Server) RejectOffer(ctx echo.Context) error {
	orderID, driverID, err := s.bindDriverAction(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewRejectOfferCommand(orderID, driverID)
	if err != nil {
		return badRequest(ctx, "Invalid reject data: "+err.Error())
	}

	if handleErr := s.rejectOfferHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// recordProgress builds the route handler for one driver delivery stage.
func (s *Server) recordProgress(stage commands.DeliveryStage) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, driverID, err := s.bindDriverAction(ctx)
		if err != nil {
			return badRequest(ctx, err.Error())
		}

		cmd, err := commands.NewRecordDeliveryProgressCommand(orderID, driverID, stage)
		if err != nil {
			return badRequest(ctx, "Invalid progress data: "+err.Error())
		}

		status, err := s.deliveryProgressHandler.Handle(ctx.Request().Context(), cmd)
		if err != nil {
			return respondError(ctx, err)
		}

		return ctx.JSON(http.StatusOK, StatusResponse{Status: status.String()})
	}
}

// CancelOrder handles POST /api/v1/orders/:orderID/cancel.
// Repeated cancels are idempotent and return the current status.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req CancelOrderRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor := req.Actor
	if actor == "" {
		actor = commands.ActorCustomer
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return badRequest(ctx, "Invalid cancel data: "+err.Error())
	}

	status, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusResponse{Status: status.String()})
}

// StartPreparing handles POST /api/v1/store-orders/:subOrderID/start-preparing.
func (s *Server) StartPreparing(ctx echo.Context) error {
	return s.handleSubOrderAction(ctx, func(subOrderID kernel.UUID) (order.Status, error) {
		cmd, err := commands.NewStartPreparingCommand(subOrderID)
		if err != nil {
			return order.Unknown, err
		}
		return s.startPreparingHandler.Handle(ctx.Request().Context(), cmd)
	})
}

// FinishPreparing handles POST /api/v1/store-orders/:subOrderID/finish-preparing.
func (s *Server) FinishPreparing(ctx echo.Context) error {
	return s.handleSubOrderAction(ctx, func(subOrderID kernel.UUID) (order.Status, error) {
		cmd, err := commands.NewFinishPreparingCommand(subOrderID)
		if err != nil {
			return order.Unknown, err
		}
		return s.finishPreparingHandler.Handle(ctx.Request().Context(), cmd)
	})
}

// ApproveSubOrder handles POST /api/v1/store-orders/:subOrderID/approve.
func (s *Server) ApproveSubOrder(ctx echo.Context) error {
	return s.handleSubOrderAction(ctx, func(subOrderID kernel.UUID) (order.Status, error) {
		cmd, err := commands.NewApproveSubOrderCommand(subOrderID)
		if err != nil {
			return order.Unknown, err
		}
		return s.approveSubOrderHandler.Handle(ctx.Request().Context(), cmd)
	})
}

// RejectSubOrder handles POST /api/v1/store-orders/:subOrderID/reject.
// Rejection sheds the store's portion and recomputes the order totals.
func (s *Server) RejectSubOrder(ctx echo.Context) error {
	var req RejectSubOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	return s.handleSubOrderAction(ctx, func(subOrderID kernel.UUID) (order.Status, error) {
		cmd, err := commands.NewRejectSubOrderCommand(subOrderID, req.Reason)
		if err != nil {
			return order.Unknown, err
		}
		return s.rejectSubOrderHandler.Handle(ctx.Request().Context(), cmd)
	})
}

// handleSubOrderAction runs one store-facing command against the sub-order
// named in the path and writes the resulting aggregate status.
func (s *Server) handleSubOrderAction(ctx echo.Context, action func(kernel.UUID) (order.Status, error)) error {
	subOrderID, err := kernel.UUIDFromString(ctx.Param("subOrderID"))
	if err != nil {
		return badRequest(ctx, "Invalid sub-order ID")
	}

	status, err := action(subOrderID)
	if err != nil {
		if isValidationError(err) {
			return badRequest(ctx, err.Error())
		}
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, StatusResponse{Status: status.String()})
}

// bindDriverAction extracts the order ID from the path and the driver ID
// from the body for driver-facing routes.
func (s *Server) bindDriverAction(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid order ID")
	}

	var req DriverRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid driver_id")
	}

	return orderID, driverID, nil
}

// respondError maps domain error kinds to HTTP status codes.
func respondError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrOfferExpired):
		code = http.StatusGone
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrInvalidTransition):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrAttemptsExhausted):
		code = http.StatusConflict
	case isValidationError(err):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}
