package http

import (
	"errors"
	"fmt"
	"net/http"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// requestValidator checks every request against the API document before it reaches a
// handler. Requests the document does not describe are left to echo's routing.
func requestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return rejectRequest(ctx, err)
			}
			return next(ctx)
		}
	}, nil
}

// rejectRequest answers 400 when the request could not be decoded at all and 422 when
// it decoded but broke the schema.
func rejectRequest(ctx echo.Context, err error) error {
	var parseErr *openapi3filter.ParseError
	if errors.As(err, &parseErr) {
		return badRequest(ctx, err.Error())
	}

	return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: err.Error(),
	})
}

// pathUUID binds a UUID path parameter.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(id[:])
}

// queryBool binds an optional boolean query parameter; absent means false.
func queryBool(ctx echo.Context, name string) (bool, error) {
	var value *bool
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), &value); err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value != nil && *value, nil
}
