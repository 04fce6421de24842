package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"librarycatalog/model"
	catalogsvc "librarycatalog/service/catalog"
	"librarycatalog/util/upload"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc catalogsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isLibrarian(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleLibrarian
}

// GET /  — index page counts
func (h *Controller) Index(c echo.Context) error {
	s, err := h.Svc.Summary(c.Request().Context())
	if err != nil {
		h.Log.Error("summary error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, s)
}

// GET /genres/
func (h *Controller) ListGenres(c echo.Context) error {
	rows, err := h.Svc.ListGenres(c.Request().Context())
	if err != nil {
		h.Log.Error("genre list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /genres/  (librarian)
func (h *Controller) CreateGenre(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req model.CreateNamedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	row, err := h.Svc.CreateGenre(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrBadInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("genre create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}

// GET /languages/
func (h *Controller) ListLanguages(c echo.Context) error {
	rows, err := h.Svc.ListLanguages(c.Request().Context())
	if err != nil {
		h.Log.Error("language list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /languages/  (librarian)
func (h *Controller) CreateLanguage(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req model.CreateNamedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	row, err := h.Svc.CreateLanguage(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrBadInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("language create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}

// POST /covers/  (librarian, multipart field "image")
func (h *Controller) CreateCover(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing file field image"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable upload"})
	}
	defer src.Close()

	row, err := h.Svc.CreateCover(c.Request().Context(), fh.Filename,
		fh.Header.Get(echo.HeaderContentType), fh.Size, src)
	if err != nil {
		if errors.Is(err, upload.ErrImageTooLarge) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("cover create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}
