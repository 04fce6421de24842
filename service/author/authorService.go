package authorsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	"librarycatalog/model"
	authorrepo "librarycatalog/repository/author"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrDuplicate ErrCode = "DUPLICATE_AUTHOR"
	ErrBadInput  ErrCode = "BAD_INPUT"
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

// Detail bundles an author with their books.
type Detail struct {
	Author model.Author `json:"author"`
	Books  []model.Book `json:"books"`
}

// BookLister is the slice of the book repository the author detail view needs.
type BookLister interface {
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)
}

type Service interface {
	Create(ctx context.Context, req model.CreateAuthorReq) (*model.Author, error)
	List(ctx context.Context) ([]model.Author, error)
	Detail(ctx context.Context, id int64) (*Detail, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	r     authorrepo.Repo
	books BookLister
}

func New(r authorrepo.Repo, books BookLister) Service { return &service{r: r, books: books} }

func (s *service) Create(ctx context.Context, req model.CreateAuthorReq) (*model.Author, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, makeErr(ErrBadInput)
	}
	a := &model.Author{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	var err error
	if a.DateOfBirth, err = parseDate(req.DateOfBirth); err != nil {
		return nil, makeErr(ErrBadInput)
	}
	if a.DateOfDeath, err = parseDate(req.DateOfDeath); err != nil {
		return nil, makeErr(ErrBadInput)
	}

	if err := s.r.Create(ctx, a); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrDuplicate)
		}
		return nil, err
	}
	return a, nil
}

func (s *service) List(ctx context.Context) ([]model.Author, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*Detail, error) {
	a, err := s.r.Detail(ctx, id)
	if errors.Is(err, authorrepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	books, err := s.books.ListByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Author: *a, Books: books}, nil
}

// Delete removes the author; the schema nulls the reference on their books
// instead of cascading.
func (s *service) Delete(ctx context.Context, id int64) error {
	err := s.r.Delete(ctx, id)
	if errors.Is(err, authorrepo.ErrNotFound) {
		return makeErr(ErrNotFound)
	}
	return err
}

func parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
