package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tienda/internal/auth"
	"tienda/internal/logging"
	"tienda/internal/service/cart"
	"tienda/internal/service/checkout"
	"tienda/internal/service/delivery"
	"tienda/internal/service/pricing"
	"tienda/internal/transport"
)

type CheckoutHandler struct {
	Cart *cart.Service
	Orch *checkout.Orchestrator
}

// Summary prices the current cart without starting a checkout. With
// lat/lng query params it also includes the delivery check.
func (h *CheckoutHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Cart.List(ctx, userID)
	if err != nil {
		return serviceError(c, err)
	}
	summary := pricing.Summarize(items, h.Orch.Config.Pricing)

	resp := map[string]any{
		"subtotal":     summary.Subtotal,
		"delivery_fee": summary.DeliveryFee,
		"tax":          summary.Tax,
		"total":        summary.Total,
		"item_count":   summary.ItemCount,
	}

	if latStr, lngStr := c.QueryParam("lat"), c.QueryParam("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid coordinates")
		}
		resp["delivery_check"] = h.Orch.DeliveryCheck(delivery.Coordinate{Lat: lat, Lng: lng})
	}

	return c.JSON(http.StatusOK, resp)
}

// Checkout runs one full attempt: begin, verify address, finalize.
// An out-of-range address is a 200 rejection, not an error.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	attempt, err := h.Orch.Begin(ctx, userID)
	if err != nil {
		l.Warn("checkout_begin_failed", "error", err)
		return serviceError(c, err)
	}

	var coord *delivery.Coordinate
	if req.Lat != nil && req.Lng != nil {
		coord = &delivery.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	}
	if err := h.Orch.VerifyAddress(ctx, attempt, req.Address, coord); err != nil {
		l.Warn("checkout_address_failed", "error", err)
		return serviceError(c, err)
	}

	receipt, rejection, err := h.Orch.Finalize(ctx, attempt)
	if err != nil {
		l.Error("checkout_finalize_failed", "error", err)
		return serviceError(c, err)
	}

	if rejection != nil {
		l.Info("checkout rejected", "distance_km", rejection.Check.DistanceKm)
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "rejected",
			"rejection": rejection,
		})
	}

	l.Info("checkout accepted", "receipt_id", receipt.ID, "total", receipt.Summary.Total)
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "accepted",
		"receipt": receipt,
	})
}
