package catalog

import (
	"context"
	"database/sql"

	"librarycatalog/model"
)

// Summary backs the index page counts.
type Summary struct {
	Books              int64 `json:"num_books"`
	Instances          int64 `json:"num_instances"`
	InstancesAvailable int64 `json:"num_instances_available"`
	Authors            int64 `json:"num_authors"`
}

type Repo interface {
	CreateGenre(ctx context.Context, g *model.Genre) error
	ListGenres(ctx context.Context) ([]model.Genre, error)
	CreateLanguage(ctx context.Context, l *model.Language) error
	ListLanguages(ctx context.Context) ([]model.Language, error)
	CreateCover(ctx context.Context, key string) (int64, error)
	Summary(ctx context.Context) (*Summary, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) CreateGenre(ctx context.Context, g *model.Genre) error {
	const q = `INSERT INTO genres (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowContext(ctx, q, g.Name).Scan(&g.ID)
}

func (r *repo) ListGenres(ctx context.Context) ([]model.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Genre
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repo) CreateLanguage(ctx context.Context, l *model.Language) error {
	const q = `INSERT INTO languages (name) VALUES ($1) RETURNING id`
	return r.db.QueryRowContext(ctx, q, l.Name).Scan(&l.ID)
}

func (r *repo) ListLanguages(ctx context.Context) ([]model.Language, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM languages ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Language
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) CreateCover(ctx context.Context, key string) (int64, error) {
	const q = `INSERT INTO covers (image_key) VALUES ($1) RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) Summary(ctx context.Context) (*Summary, error) {
	const q = `
SELECT
	(SELECT COUNT(*) FROM books),
	(SELECT COUNT(*) FROM book_instances),
	(SELECT COUNT(*) FROM book_instances WHERE status = 'available'),
	(SELECT COUNT(*) FROM authors)`
	var s Summary
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Books, &s.Instances, &s.InstancesAvailable, &s.Authors); err != nil {
		return nil, err
	}
	return &s, nil
}
