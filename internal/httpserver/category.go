package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tienda/internal/logging"
	"tienda/internal/service/catalog"
	"tienda/internal/transport"
)

type CategoryHandler struct {
	Svc *catalog.Service
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.Svc.GetCategories(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	category, err := h.Svc.GetCategory(c.Request().Context(), uint(id))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		l.Warn("create_category_error", "error", err)
		return serviceError(c, err)
	}

	l.Info("category created", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.PatchCategory(ctx, req, uint(id))
	if err != nil {
		l.Warn("patch_category_error", "category_id", id, "error", err)
		return serviceError(c, err)
	}

	l.Info("category updated", "category_id", category.ID)
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return errorJSON(c, http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteCategory(ctx, uint(id)); err != nil {
		l.Warn("delete_category_error", "category_id", id, "error", err)
		return serviceError(c, err)
	}

	l.Info("category deleted", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
