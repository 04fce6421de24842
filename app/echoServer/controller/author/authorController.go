package author

import (
	"log/slog"
	"net/http"
	"strconv"

	"librarycatalog/model"
	authorsvc "librarycatalog/service/author"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc authorsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isLibrarian(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleLibrarian
}

// GET /author/
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("author list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /author/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if authorsvc.Code(err) == authorsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("author detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /author/  (librarian)
func (h *Controller) Create(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req model.CreateAuthorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	row, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		switch authorsvc.Code(err) {
		case authorsvc.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"message": "author already exists"})
		case authorsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("author create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}

// DELETE /author/:id  (librarian)
func (h *Controller) Delete(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if authorsvc.Code(err) == authorsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("author delete error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
