package instancesvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"librarycatalog/model"
	instancerepo "librarycatalog/repository/instance"
	"librarycatalog/storage"
	"librarycatalog/util/upload"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrBookNotFound     ErrCode = "BOOK_NOT_FOUND"
	ErrBorrowerNotFound ErrCode = "BORROWER_NOT_FOUND"
	ErrNotAvailable     ErrCode = "NOT_AVAILABLE"
	ErrNotOnLoan        ErrCode = "NOT_ON_LOAN"
	ErrBadInput         ErrCode = "BAD_INPUT"
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
	Create(ctx context.Context, bookID int64, req model.CreateInstanceReq) (*model.BookInstance, error)
	List(ctx context.Context) ([]model.BookInstance, error)
	MyBooks(ctx context.Context, userID int64) ([]model.BookInstance, error)
	Get(ctx context.Context, id uuid.UUID) (*model.BookInstance, error)
	Loan(ctx context.Context, id uuid.UUID, borrowerID int64, dueBack time.Time) error
	Return(ctx context.Context, id uuid.UUID) error
	UploadPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, size int64, r io.Reader) (string, error)
}

type service struct {
	r     instancerepo.Repo
	store storage.ObjectStore
}

func New(r instancerepo.Repo, store storage.ObjectStore) Service {
	return &service{r: r, store: store}
}

// Create registers a new copy of a book. New copies start in maintenance
// unless the request says otherwise.
func (s *service) Create(ctx context.Context, bookID int64, req model.CreateInstanceReq) (*model.BookInstance, error) {
	if bookID <= 0 || strings.TrimSpace(req.Imprint) == "" {
		return nil, makeErr(ErrBadInput)
	}
	status := model.StatusMaintenance
	if req.Status != "" {
		if !model.IsValidLoanStatus(req.Status) {
			return nil, makeErr(ErrBadInput)
		}
		status = model.LoanStatus(req.Status)
	}
	bi := &model.BookInstance{
		ID:      uuid.New(),
		BookID:  bookID,
		Imprint: strings.TrimSpace(req.Imprint),
		Status:  status,
	}
	if err := s.r.Create(ctx, bi); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	return s.Get(ctx, bi.ID)
}

func (s *service) List(ctx context.Context) ([]model.BookInstance, error) {
	out, err := s.r.List(ctx)
	if err != nil {
		return nil, err
	}
	markOverdue(out)
	return out, nil
}

func (s *service) MyBooks(ctx context.Context, userID int64) ([]model.BookInstance, error) {
	out, err := s.r.ListByBorrower(ctx, userID)
	if err != nil {
		return nil, err
	}
	markOverdue(out)
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.BookInstance, error) {
	bi, err := s.r.Get(ctx, id)
	if errors.Is(err, instancerepo.ErrNotFound) {
		return nil, makeErr(ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	bi.IsOverdue = bi.Overdue()
	return bi, nil
}

// Loan puts an available copy on loan to a borrower until dueBack.
func (s *service) Loan(ctx context.Context, id uuid.UUID, borrowerID int64, dueBack time.Time) error {
	if borrowerID <= 0 {
		return makeErr(ErrBadInput)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	ok, err := s.r.Loan(ctx, id, borrowerID, sql.NullTime{Time: dueBack, Valid: true})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return makeErr(ErrBorrowerNotFound)
		}
		return err
	}
	if !ok {
		return makeErr(ErrNotAvailable)
	}
	return nil
}

// Return marks a copy as returned: borrower and due date cleared, status
// back to available.
func (s *service) Return(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	ok, err := s.r.Return(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotOnLoan)
	}
	return nil
}

// UploadPhoto stores a copy photo (2MB cap) and records its key.
func (s *service) UploadPhoto(ctx context.Context, id uuid.UUID, filename, contentType string, size int64, r io.Reader) (string, error) {
	if err := upload.ValidateImageSize(size); err != nil {
		return "", err
	}
	key := fmt.Sprintf("instances/%s/%s", id, filename)
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	if err := s.r.SetPhotoKey(ctx, id, key); err != nil {
		if errors.Is(err, instancerepo.ErrNotFound) {
			return "", makeErr(ErrNotFound)
		}
		return "", err
	}
	return key, nil
}

func markOverdue(list []model.BookInstance) {
	for i := range list {
		list[i].IsOverdue = list[i].Overdue()
	}
}
