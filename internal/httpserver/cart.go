package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tienda/internal/auth"
	"tienda/internal/logging"
	"tienda/internal/service/cart"
	"tienda/internal/transport"
)

type CartHandler struct {
	Svc *cart.Service
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.List(ctx, userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_cart_item_bind_error", "error", err)
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: "quantity", Constraint: "must be a positive integer"})
	}
	if req.ProductID == 0 {
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: "product_id", Constraint: "required"})
	}

	item, err := h.Svc.Add(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_cart_item_error", "product_id", req.ProductID, "error", err)
		return serviceError(c, err)
	}

	l.Info("cart item added", "product_id", req.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	if _, err := auth.UserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusUnprocessableEntity, "validation failed",
			transport.ValidationError{Field: "quantity", Constraint: "must be a positive integer"})
	}

	item, err := h.Svc.UpdateQuantity(ctx, uint(id), req.Quantity)
	if err != nil {
		l.Warn("update_cart_item_error", "item_id", id, "error", err)
		return serviceError(c, err)
	}

	l.Info("cart item updated", "item_id", id, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.Remove(ctx, uint(id), userID); err != nil {
		l.Warn("delete_cart_item_error", "item_id", id, "error", err)
		return serviceError(c, err)
	}

	l.Info("cart item removed", "item_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := auth.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		l.Error("clear_cart_error", "error", err)
		return serviceError(c, err)
	}

	l.Info("cart cleared")
	return c.NoContent(http.StatusNoContent)
}
