package instancerepo

import (
	"context"
	"database/sql"
	"errors"

	"librarycatalog/model"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("book instance not found")

type Repo interface {
	Create(ctx context.Context, bi *model.BookInstance) error
	List(ctx context.Context) ([]model.BookInstance, error)
	ListByBorrower(ctx context.Context, userID int64) ([]model.BookInstance, error)
	Get(ctx context.Context, id uuid.UUID) (*model.BookInstance, error)
	Loan(ctx context.Context, id uuid.UUID, borrowerID int64, dueBack sql.NullTime) (bool, error)
	Return(ctx context.Context, id uuid.UUID) (bool, error)
	SetPhotoKey(ctx context.Context, id uuid.UUID, key string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, bi *model.BookInstance) error {
	const q = `
INSERT INTO book_instances (id, book_id, imprint, status)
VALUES ($1,$2,$3,$4)`
	_, err := r.db.ExecContext(ctx, q, bi.ID, bi.BookID, bi.Imprint, bi.Status)
	return err
}

const selectInstance = `
SELECT bi.id, bi.book_id, b.title, bi.imprint, bi.due_back, bi.borrower_id, bi.status, bi.photo_key
FROM book_instances bi
JOIN books b ON b.id = bi.book_id`

// due_back ascending with nulls first is the collection's default order.
const defaultOrder = `
ORDER BY bi.due_back ASC NULLS FIRST, bi.id`

func scanInstance(row interface{ Scan(...any) error }, bi *model.BookInstance) error {
	return row.Scan(&bi.ID, &bi.BookID, &bi.BookTitle, &bi.Imprint,
		&bi.DueBack, &bi.BorrowerID, &bi.Status, &bi.PhotoKey)
}

func (r *repo) List(ctx context.Context) ([]model.BookInstance, error) {
	rows, err := r.db.QueryContext(ctx, selectInstance+defaultOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookInstance
	for rows.Next() {
		var bi model.BookInstance
		if err := scanInstance(rows, &bi); err != nil {
			return nil, err
		}
		out = append(out, bi)
	}
	return out, rows.Err()
}

func (r *repo) ListByBorrower(ctx context.Context, userID int64) ([]model.BookInstance, error) {
	rows, err := r.db.QueryContext(ctx, selectInstance+`
WHERE bi.borrower_id = $1 AND bi.status = 'on_loan'`+defaultOrder, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookInstance
	for rows.Next() {
		var bi model.BookInstance
		if err := scanInstance(rows, &bi); err != nil {
			return nil, err
		}
		out = append(out, bi)
	}
	return out, rows.Err()
}

func (r *repo) Get(ctx context.Context, id uuid.UUID) (*model.BookInstance, error) {
	var bi model.BookInstance
	err := scanInstance(r.db.QueryRowContext(ctx, selectInstance+`
WHERE bi.id = $1`, id), &bi)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bi, nil
}

// Loan marks an available copy as on loan. Returns false when the copy is not
// currently available.
func (r *repo) Loan(ctx context.Context, id uuid.UUID, borrowerID int64, dueBack sql.NullTime) (bool, error) {
	const q = `
UPDATE book_instances
SET status = 'on_loan',
    borrower_id = $2,
    due_back = $3
WHERE id = $1
AND status = 'available'`
	res, err := r.db.ExecContext(ctx, q, id, borrowerID, dueBack)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// Return frees a copy that is on loan. Returns false when it was not on loan.
func (r *repo) Return(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `
UPDATE book_instances
SET status = 'available',
    borrower_id = NULL,
    due_back = NULL
WHERE id = $1
AND status = 'on_loan'`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) SetPhotoKey(ctx context.Context, id uuid.UUID, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE book_instances SET photo_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}
