package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"canteen/internal/core/application/stock"
	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps domain errors to HTTP status codes. Anything unrecognized is a storage
// or programming fault.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case stock.IsRejected(err),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrObjectExists),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, order.ErrPaymentMismatch),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusOf(err)
	body := ErrorResponse{Code: code, Message: err.Error()}

	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		body.Message = "internal error"
	}

	var transitionErr *order.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		body.Status = transitionErr.Current.String()
	}

	var insufficient *product.InsufficientStockError
	var unavailable *product.UnavailableError
	switch {
	case errors.As(err, &insufficient):
		body.ProductID = insufficient.ProductID.String()
	case errors.As(err, &unavailable):
		body.ProductID = unavailable.ProductID.String()
	}

	var limited *errs.RateLimitedError
	if errors.As(err, &limited) {
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		ctx.Response().Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
	}

	return ctx.JSON(code, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}
