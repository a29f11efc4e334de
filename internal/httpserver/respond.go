package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tienda/internal/geo"
	"tienda/internal/service/cart"
	"tienda/internal/service/catalog"
	"tienda/internal/service/checkout"
	"tienda/internal/transport"
)

func errorJSON(c echo.Context, code int, message string, fieldErrors ...transport.ValidationError) error {
	return c.JSON(code, transport.ErrorResponse{
		Status:  "error",
		Message: message,
		Errors:  fieldErrors,
	})
}

// serviceError maps service sentinels onto HTTP responses. Validation
// problems come back as 422 with field detail so the caller can correct
// the request; transient I/O on write paths surfaces as 503.
func serviceError(c echo.Context, err error) error {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: ve.Field, Constraint: ve.Constraint})
	case errors.Is(err, cart.ErrInvalidQuantity):
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: "quantity", Constraint: "must be a positive integer"})
	case errors.Is(err, cart.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrInsufficientStock):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrAddressRequired):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, geo.ErrNoResults):
		return errorJSON(c, http.StatusBadRequest, "address could not be resolved")
	case errors.Is(err, catalog.ErrTransient), errors.Is(err, geo.ErrTransient):
		return errorJSON(c, http.StatusServiceUnavailable, "temporarily unavailable, please retry")
	}
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}
