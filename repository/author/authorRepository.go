package authorrepo

import (
	"context"
	"database/sql"
	"errors"

	"librarycatalog/model"
)

var ErrNotFound = errors.New("author not found")

type Repo interface {
	Create(ctx context.Context, a *model.Author) error
	List(ctx context.Context) ([]model.Author, error)
	Detail(ctx context.Context, id int64) (*model.Author, error)
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, a *model.Author) error {
	const q = `
INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death)
VALUES ($1,$2,$3,$4)
RETURNING id`
	return r.db.QueryRowContext(ctx, q, a.FirstName, a.LastName, a.DateOfBirth, a.DateOfDeath).Scan(&a.ID)
}

func (r *repo) List(ctx context.Context) ([]model.Author, error) {
	const q = `
SELECT id, first_name, last_name, date_of_birth, date_of_death
FROM authors
ORDER BY last_name, first_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.DateOfDeath); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Author, error) {
	const q = `
SELECT id, first_name, last_name, date_of_birth, date_of_death
FROM authors
WHERE id = $1`
	var a model.Author
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.FirstName, &a.LastName, &a.DateOfBirth, &a.DateOfDeath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes the author; books referencing them keep existing with the
// reference nulled by the schema's ON DELETE SET NULL.
func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}
