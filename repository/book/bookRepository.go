package bookrepo

import (
	"context"
	"database/sql"
	"errors"

	"librarycatalog/model"
)

var ErrNotFound = errors.New("book not found")

type Repo interface {
	Create(ctx context.Context, b *model.Book, genreIDs []int64) error
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error)
	Delete(ctx context.Context, id int64) error
	SetCoverKey(ctx context.Context, id int64, key string) error
	SetFileKey(ctx context.Context, id int64, key string) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, b *model.Book, genreIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const ins = `
INSERT INTO books (title, summary, isbn, author_id, language_id)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`
	if err = tx.QueryRowContext(ctx, ins, b.Title, b.Summary, b.ISBN, b.AuthorID, b.LanguageID).Scan(&b.ID); err != nil {
		return err
	}

	const insGenre = `INSERT INTO book_genres (book_id, genre_id) VALUES ($1,$2)`
	for _, gid := range genreIDs {
		if _, err = tx.ExecContext(ctx, insGenre, b.ID, gid); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

const selectBook = `
SELECT b.id, b.title, b.summary, b.isbn,
       b.author_id, COALESCE(a.last_name || ', ' || a.first_name, ''),
       b.language_id, COALESCE(l.name, ''),
       b.cover_key, b.file_key
FROM books b
LEFT JOIN authors a ON a.id = b.author_id
LEFT JOIN languages l ON l.id = b.language_id`

func scanBook(row interface{ Scan(...any) error }, b *model.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN,
		&b.AuthorID, &b.AuthorName,
		&b.LanguageID, &b.Language,
		&b.CoverKey, &b.FileKey)
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, selectBook+`
ORDER BY b.title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachGenres(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	var b model.Book
	err := scanBook(r.db.QueryRowContext(ctx, selectBook+`
WHERE b.id = $1`, id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	books := []model.Book{b}
	if err := r.attachGenres(ctx, books); err != nil {
		return nil, err
	}
	return &books[0], nil
}

func (r *repo) ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, selectBook+`
WHERE b.author_id = $1
ORDER BY b.title`, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachGenres(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

const genresByBookQuery = `
SELECT bg.book_id, g.id, g.name
FROM book_genres bg
JOIN genres g ON g.id = bg.genre_id
WHERE bg.book_id = ANY($1)
ORDER BY bg.book_id, g.id`

// attachGenres loads genre rows for the given books in one query.
func (r *repo) attachGenres(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]int64, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	rows, err := r.db.QueryContext(ctx, genresByBookQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byBook := make(map[int64][]model.Genre)
	for rows.Next() {
		var bookID int64
		var g model.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return err
		}
		byBook[bookID] = append(byBook[bookID], g)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range books {
		books[i].Genres = byBook[books[i].ID]
	}
	return nil
}

// Delete fails with a foreign-key violation while book_instances reference the
// book; callers map that to a conflict.
func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) SetCoverKey(ctx context.Context, id int64, key string) error {
	return r.setKey(ctx, `UPDATE books SET cover_key = $2 WHERE id = $1`, id, key)
}

func (r *repo) SetFileKey(ctx context.Context, id int64, key string) error {
	return r.setKey(ctx, `UPDATE books SET file_key = $2 WHERE id = $1`, id, key)
}

func (r *repo) setKey(ctx context.Context, q string, id int64, key string) error {
	res, err := r.db.ExecContext(ctx, q, id, key)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}
