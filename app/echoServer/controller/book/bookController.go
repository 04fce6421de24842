package book

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"librarycatalog/model"
	booksvc "librarycatalog/service/book"
	"librarycatalog/util/upload"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isLibrarian(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleLibrarian
}

// GET /books/
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	type row struct {
		model.Book
		DisplayGenre string `json:"display_genre"`
		URL          string `json:"url"`
	}
	out := make([]row, 0, len(rows))
	for i := range rows {
		out = append(out, row{
			Book:         rows[i],
			DisplayGenre: rows[i].DisplayGenre(),
			URL:          rows[i].AbsoluteURL(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// GET /book/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if booksvc.Code(err) == booksvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("book detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /books/  (librarian)
func (h *Controller) Create(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req model.CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
	}
	row, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrISBNTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "isbn already registered"})
		case booksvc.ErrDuplicateTitle:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book with this title and author already exists"})
		case booksvc.ErrBadReference:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown author, language or genre"})
		case booksvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		}
		h.Log.Error("book create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, row)
}

// DELETE /book/:id  (librarian)
func (h *Controller) Delete(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		switch booksvc.Code(err) {
		case booksvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		case booksvc.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"message": "book still has copies"})
		}
		h.Log.Error("book delete error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /book/:id/cover  (librarian, multipart field "image")
func (h *Controller) UploadCover(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	fh, src, resp := openUpload(c, "image")
	if resp != nil {
		return resp()
	}
	defer src.Close()

	key, err := h.Svc.UploadCover(c.Request().Context(), id, fh.Filename,
		fh.Header.Get(echo.HeaderContentType), fh.Size, src)
	if err != nil {
		return h.uploadError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"cover_key": key})
}

// POST /book/:id/file  (librarian, multipart field "file")
func (h *Controller) UploadFile(c echo.Context) error {
	if !isLibrarian(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	fh, src, resp := openUpload(c, "file")
	if resp != nil {
		return resp()
	}
	defer src.Close()

	key, err := h.Svc.UploadFile(c.Request().Context(), id, fh.Filename,
		fh.Header.Get(echo.HeaderContentType), fh.Size, src)
	if err != nil {
		return h.uploadError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"file_key": key})
}

func (h *Controller) uploadError(c echo.Context, err error) error {
	if errors.Is(err, upload.ErrImageTooLarge) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	if booksvc.Code(err) == booksvc.ErrNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
	}
	h.Log.Error("book upload error", "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// openUpload pulls a multipart file out of the request. The third return
// value is non-nil when the request was malformed and carries the response.
func openUpload(c echo.Context, field string) (*multipart.FileHeader, multipart.File, func() error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, func() error {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing file field " + field})
		}
	}
	src, err := fh.Open()
	if err != nil {
		return nil, nil, func() error {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unreadable upload"})
		}
	}
	return fh, src, nil
}
