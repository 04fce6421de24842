package booksvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"librarycatalog/model"
	bookrepo "librarycatalog/repository/book"
	"librarycatalog/storage"
	"librarycatalog/util/upload"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrISBNTaken      ErrCode = "ISBN_TAKEN"
	ErrDuplicateTitle ErrCode = "DUPLICATE_TITLE_AUTHOR"
	ErrBadReference   ErrCode = "BAD_REFERENCE"
	ErrInUse          ErrCode = "BOOK_IN_USE"
	ErrBadInput       ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	Create(ctx context.Context, req model.CreateBookReq) (*model.Book, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	UploadCover(ctx context.Context, id int64, filename, contentType string, size int64, r io.Reader) (string, error)
	UploadFile(ctx context.Context, id int64, filename, contentType string, size int64, r io.Reader) (string, error)
}

type service struct {
	r     bookrepo.Repo
	store storage.ObjectStore
}

func New(r bookrepo.Repo, store storage.ObjectStore) Service {
	return &service{r: r, store: store}
}

func (s *service) Create(ctx context.Context, req model.CreateBookReq) (*model.Book, error) {
	if strings.TrimSpace(req.Title) == "" || len(req.ISBN) != 13 {
		return nil, makeErr(ErrBadInput)
	}
	b := &model.Book{
		Title:      strings.TrimSpace(req.Title),
		Summary:    req.Summary,
		ISBN:       req.ISBN,
		AuthorID:   req.AuthorID,
		LanguageID: req.LanguageID,
	}
	if err := s.r.Create(ctx, b, req.GenreIDs); err != nil {
		if cerr := mapConstraintErr(err); cerr != nil {
			return nil, cerr
		}
		return nil, err
	}
	return s.Detail(ctx, b.ID)
}

func (s *service) List(ctx context.Context) ([]model.Book, error) { return s.r.List(ctx) }

// downloadLinkTTL bounds how long presigned cover/file links stay valid.
const downloadLinkTTL = 15 * time.Minute

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.Detail(ctx, id)
	if errors.Is(err, bookrepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if b.CoverKey != nil {
		if b.CoverURL, err = s.store.PresignGet(ctx, *b.CoverKey, downloadLinkTTL); err != nil {
			return nil, err
		}
	}
	if b.FileKey != nil {
		if b.FileURL, err = s.store.PresignGet(ctx, *b.FileKey, downloadLinkTTL); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Delete is restricted while copies of the book exist. Stored objects go
// with the record.
func (s *service) Delete(ctx context.Context, id int64) error {
	b, err := s.r.Detail(ctx, id)
	if errors.Is(err, bookrepo.ErrNotFound) {
		return makeErr(ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, bookrepo.ErrNotFound) {
			return makeErr(ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return makeErr(ErrInUse)
		}
		return err
	}
	if b.CoverKey != nil {
		_ = s.store.Delete(ctx, *b.CoverKey)
	}
	if b.FileKey != nil {
		_ = s.store.Delete(ctx, *b.FileKey)
	}
	return nil
}

// UploadCover stores a cover image (2MB cap) and records its key.
func (s *service) UploadCover(ctx context.Context, id int64, filename, contentType string, size int64, r io.Reader) (string, error) {
	if err := upload.ValidateImageSize(size); err != nil {
		return "", err
	}
	key := fmt.Sprintf("cover/books/%d/%s", id, filename)
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	if err := s.r.SetCoverKey(ctx, id, key); err != nil {
		if errors.Is(err, bookrepo.ErrNotFound) {
			return "", makeErr(ErrNotFound)
		}
		return "", err
	}
	return key, nil
}

// UploadFile stores the downloadable book file; no size cap applies here.
func (s *service) UploadFile(ctx context.Context, id int64, filename, contentType string, size int64, r io.Reader) (string, error) {
	key := fmt.Sprintf("books/%d/file/%s", id, filename)
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	if err := s.r.SetFileKey(ctx, id, key); err != nil {
		if errors.Is(err, bookrepo.ErrNotFound) {
			return "", makeErr(ErrNotFound)
		}
		return "", err
	}
	return key, nil
}

func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	cn := strings.ToLower(pgErr.ConstraintName)
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if strings.Contains(cn, "isbn") {
			return makeErr(ErrISBNTaken)
		}
		if strings.Contains(cn, "title") {
			return makeErr(ErrDuplicateTitle)
		}
		return makeErr(ErrBadInput)
	case pgerrcode.ForeignKeyViolation:
		// unknown author, language or genre id
		return makeErr(ErrBadReference)
	}
	return nil
}
