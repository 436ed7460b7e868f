package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"canteen/api"
	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/application/usecases/queries"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Rate limited operations.
const (
	OperationCheckout     = "checkout"
	OperationStatusUpdate = "status_update"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	AddToCart              commands.AddToCartCommandHandler
	DecreaseCart           commands.DecreaseCartCommandHandler
	RemoveFromCart         commands.RemoveFromCartCommandHandler
	PlaceOrder             commands.PlaceOrderCommandHandler
	ConfirmPayment         commands.ConfirmPaymentCommandHandler
	StaffTransition        commands.StaffTransitionCommandHandler
	CancelOrder            commands.CancelOrderCommandHandler
	RetireOrder            commands.RetireOrderCommandHandler
	DismissNotification    commands.DismissNotificationCommandHandler
	CreateProduct          commands.CreateProductCommandHandler
	ChangeProductPrice     commands.ChangeProductPriceCommandHandler
	SetProductAvailability commands.SetProductAvailabilityCommandHandler

	GetMenu           queries.GetMenuQueryHandler
	GetCart           queries.GetCartQueryHandler
	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	PollNotifications queries.PollNotificationsQueryHandler
}

// Server translates HTTP requests into commands and queries. Requests under /api/v1
// are validated against the OpenAPI document in package api before a handler runs.
type Server struct {
	h         Handlers
	limiter   ports.RateLimiter
	validator echo.MiddlewareFunc
	logger    *slog.Logger
}

// NewServer loads the API document and prepares request validation. A nil limiter
// disables rate limiting.
//
// Example:
//
//	server, err := http.NewServer(handlers, limiter, logger)
//	if err != nil {
//		return err
//	}
//	server.RegisterRoutes(e)
func NewServer(handlers Handlers, limiter ports.RateLimiter, logger *slog.Logger) (*Server, error) {
	doc, err := api.Load(context.Background())
	if err != nil {
		return nil, err
	}
	if err = api.RegisterSwagger(doc); err != nil {
		return nil, err
	}
	validator, err := requestValidator(doc)
	if err != nil {
		return nil, fmt.Errorf("create request validator: %w", err)
	}

	return &Server{
		h:         handlers,
		limiter:   limiter,
		validator: validator,
		logger:    logger.With("component", "http_server"),
	}, nil
}

// RegisterRoutes mounts the API, the health check and the Swagger UI on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1", s.validator)

	v1.GET("/facilities/:facility/menu", s.GetMenu)
	v1.GET("/facilities/:facility/orders", s.GetFacilityOrders)
	v1.POST("/facilities/:facility/orders/:id/transitions", s.StaffTransition)
	v1.DELETE("/facilities/:facility/orders/:id", s.RetireOrder)

	v1.GET("/carts/:session", s.GetCart)
	v1.POST("/carts/:session/items/:product/add", s.AddToCart)
	v1.POST("/carts/:session/items/:product/decrease", s.DecreaseCart)
	v1.DELETE("/carts/:session/items/:product", s.RemoveFromCart)

	v1.POST("/orders", s.PlaceOrder)
	v1.GET("/orders/:id", s.GetOrder)
	v1.POST("/orders/:id/payment", s.ConfirmPayment)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.GET("/customers/:phone/orders", s.GetCustomerOrders)

	v1.GET("/notifications/:phone", s.PollNotifications)
	v1.DELETE("/notifications/:phone/:order", s.DismissNotification)

	v1.POST("/products", s.CreateProduct)
	v1.PUT("/products/:id/price", s.ChangeProductPrice)
	v1.PUT("/products/:id/availability", s.SetProductAvailability)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetMenu handles GET /api/v1/facilities/:facility/menu.
func (s *Server) GetMenu(ctx echo.Context) error {
	query, err := queries.NewGetMenuQuery(ctx.Param("facility"))
	if err != nil {
		return s.fail(ctx, err)
	}

	menu, err := s.h.GetMenu.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, menuFrom(menu))
}

// GetCart handles GET /api/v1/carts/:session.
func (s *Server) GetCart(ctx echo.Context) error {
	return s.respondWithCart(ctx, ctx.Param("session"), http.StatusOK)
}

// AddToCart handles POST /api/v1/carts/:session/items/:product/add.
func (s *Server) AddToCart(ctx echo.Context) error {
	productID, err := pathUUID(ctx, "product")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewAddToCartCommand(ctx.Param("session"), productID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.AddToCart.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithCart(ctx, cmd.Session(), http.StatusOK)
}

// DecreaseCart handles POST /api/v1/carts/:session/items/:product/decrease.
func (s *Server) DecreaseCart(ctx echo.Context) error {
	productID, err := pathUUID(ctx, "product")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewDecreaseCartCommand(ctx.Param("session"), productID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.DecreaseCart.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithCart(ctx, cmd.Session(), http.StatusOK)
}

// RemoveFromCart handles DELETE /api/v1/carts/:session/items/:product.
func (s *Server) RemoveFromCart(ctx echo.Context) error {
	productID, err := pathUUID(ctx, "product")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRemoveFromCartCommand(ctx.Param("session"), productID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.RemoveFromCart.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithCart(ctx, cmd.Session(), http.StatusOK)
}

// respondWithCart answers with the current summary of the session cart.
func (s *Server) respondWithCart(ctx echo.Context, session string, code int) error {
	query, err := queries.NewGetCartQuery(session)
	if err != nil {
		return s.fail(ctx, err)
	}

	summary, err := s.h.GetCart.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(code, cartFrom(summary))
}

// PlaceOrder handles POST /api/v1/orders. Checkout is rate limited per customer.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if req.OrderID != "" {
		id, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return s.fail(ctx, err)
		}
		orderID = id
	}
	customer, err := kernel.NewPhone(req.CustomerPhone)
	if err != nil {
		return s.fail(ctx, err)
	}
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(orderID, req.Session, customer, req.CustomerName, req.Facility, method)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.admit(ctx.Request().Context(), customer.String(), OperationCheckout); err != nil {
		return s.fail(ctx, err)
	}

	placed, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, StatusResponse{
		ID:          placed.ID.String(),
		Status:      placed.Status.String(),
		Description: placed.Description,
		Total:       placed.Total.String(),
	})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFrom(view))
}

// ConfirmPayment handles POST /api/v1/orders/:id/payment, the payment gateway callback.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PaymentResultRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	amount, err := kernel.MoneyFromString(req.Amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewConfirmPaymentCommand(orderID, req.Success, amount, req.Reference, req.Signature)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.h.ConfirmPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, StatusResponse{
		ID:          orderID.String(),
		Status:      status.String(),
		Description: status.Description(),
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	customer, err := kernel.NewPhone(req.CustomerPhone)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, customer)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transitionFrom(result))
}

// GetCustomerOrders handles GET /api/v1/customers/:phone/orders.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	customer, err := kernel.NewPhone(ctx.Param("phone"))
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetCustomerOrdersQuery(customer)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.h.ListOrders.HandleCustomer(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ordersFrom(views))
}

// GetFacilityOrders handles GET /api/v1/facilities/:facility/orders?active=true.
func (s *Server) GetFacilityOrders(ctx echo.Context) error {
	activeOnly, err := queryBool(ctx, "active")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetFacilityOrdersQuery(ctx.Param("facility"), activeOnly)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.h.ListOrders.HandleFacility(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, ordersFrom(views))
}

// StaffTransition handles POST /api/v1/facilities/:facility/orders/:id/transitions.
// Status updates are rate limited per staff member.
func (s *Server) StaffTransition(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	trigger, err := order.ParseTrigger(req.Trigger)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewStaffTransitionCommand(
		orderID, trigger, ctx.Param("facility"), req.StaffID, req.EstimatedReadyMinutes,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.admit(ctx.Request().Context(), cmd.StaffID(), OperationStatusUpdate); err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.StaffTransition.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, transitionFrom(result))
}

// RetireOrder handles DELETE /api/v1/facilities/:facility/orders/:id.
func (s *Server) RetireOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRetireOrderCommand(orderID, ctx.Param("facility"))
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.RetireOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// PollNotifications handles GET /api/v1/notifications/:phone.
func (s *Server) PollNotifications(ctx echo.Context) error {
	recipient, err := kernel.NewPhone(ctx.Param("phone"))
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewPollNotificationsQuery(recipient)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.h.PollNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, notificationsFrom(views))
}

// DismissNotification handles DELETE /api/v1/notifications/:phone/:order.
func (s *Server) DismissNotification(ctx echo.Context) error {
	recipient, err := kernel.NewPhone(ctx.Param("phone"))
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := pathUUID(ctx, "order")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewDismissNotificationCommand(recipient, orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.DismissNotification.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CreateProduct handles POST /api/v1/products.
func (s *Server) CreateProduct(ctx echo.Context) error {
	var req NewProductRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	price, err := kernel.MoneyFromString(req.Price)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateProductCommand(
		kernel.NewUUID(), req.Name, req.Facility, price, req.StockManaged, req.Stock,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.CreateProduct.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: cmd.ProductID().String()})
}

// ChangeProductPrice handles PUT /api/v1/products/:id/price.
func (s *Server) ChangeProductPrice(ctx echo.Context) error {
	productID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req PriceRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	price, err := kernel.MoneyFromString(req.Price)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeProductPriceCommand(productID, price)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.ChangeProductPrice.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// SetProductAvailability handles PUT /api/v1/products/:id/availability.
func (s *Server) SetProductAvailability(ctx echo.Context) error {
	productID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.fail(ctx, err)
	}
	var req AvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetProductAvailabilityCommand(productID, req.Available)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.h.SetProductAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// admit counts one attempt of operation for identity. A limiter outage lets the request
// through.
func (s *Server) admit(ctx context.Context, identity, operation string) error {
	if s.limiter == nil {
		return nil
	}

	ok, retryAfter, err := s.limiter.Allow(ctx, identity, operation)
	if err != nil {
		s.logger.WarnContext(ctx, "Rate limiter unavailable", "operation", operation, "error", err)
		return nil
	}
	if !ok {
		return errs.NewRateLimitedError(operation, retryAfter)
	}
	return nil
}
