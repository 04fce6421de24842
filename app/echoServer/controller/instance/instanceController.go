package instance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"librarycatalog/model"
	instancesvc "librarycatalog/service/instance"
	"librarycatalog/util/upload"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc instancesvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Marking a copy returned (and loaning it out) is the librarian's privilege.
func isLibrarian(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleLibrarian
}

// GET /instances/  (librarian)
func (h *Controller) List(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("instance list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /mybooks/  — copies on loan to the current user
func (h *Controller) MyBooks(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	if uid <= 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.MyBooks(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("mybooks error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// POST /book/:id/instances  (librarian)
func (h *Controller) Create(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.CreateInstanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	row, err := h.Svc.Create(c.Request().Context(), bookID, req)
	if err != nil {
		switch instancesvc.Code(err) {
		case instancesvc.ErrBookNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown book"})
		case instancesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("instance create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}

// POST /instance/:id/loan  (librarian)
func (h *Controller) Loan(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, resp := parseID(c)
	if resp != nil {
		return resp()
	}
	var req model.LoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	dueBack, err := time.Parse("2006-01-02", req.DueBack)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid due_back"})
	}
	if err := h.Svc.Loan(c.Request().Context(), id, req.BorrowerID, dueBack); err != nil {
		switch instancesvc.Code(err) {
		case instancesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		case instancesvc.ErrNotAvailable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "copy is not available"})
		case instancesvc.ErrBorrowerNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown borrower"})
		case instancesvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("instance loan error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "loaned"})
}

// POST /instance/:id/return  (librarian)
func (h *Controller) Return(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, resp := parseID(c)
	if resp != nil {
		return resp()
	}
	if err := h.Svc.Return(c.Request().Context(), id); err != nil {
		switch instancesvc.Code(err) {
		case instancesvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		case instancesvc.ErrNotOnLoan:
			return c.JSON(http.StatusConflict, echo.Map{"message": "copy is not on loan"})
		}
		h.Log.Error("instance return error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// POST /instance/:id/photo  (librarian, multipart field "image")
func (h *Controller) UploadPhoto(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, resp := parseID(c)
	if resp != nil {
		return resp()
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

	key, err := h.Svc.UploadPhoto(c.Request().Context(), id, fh.Filename,
		fh.Header.Get(echo.HeaderContentType), fh.Size, src)
	if err != nil {
		if errors.Is(err, upload.ErrImageTooLarge) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		if instancesvc.Code(err) == instancesvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("instance photo error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"photo_key": key})
}

func parseID(c echo.Context) (uuid.UUID, func() error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, func() error {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
		}
	}
	return id, nil
}
