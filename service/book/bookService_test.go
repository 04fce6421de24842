// service/book/book_service_test.go
package booksvc_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"librarycatalog/model"
	booksvc "librarycatalog/service/book"
	"librarycatalog/util/upload"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type repoMock struct {
	createFn      func(ctx context.Context, b *model.Book, genreIDs []int64) error
	listFn        func(ctx context.Context) ([]model.Book, error)
	detailFn      func(ctx context.Context, id int64) (*model.Book, error)
	listByAuthFn  func(ctx context.Context, authorID int64) ([]model.Book, error)
	deleteFn      func(ctx context.Context, id int64) error
	setCoverKeyFn func(ctx context.Context, id int64, key string) error
	setFileKeyFn  func(ctx context.Context, id int64, key string) error
}

func (m *repoMock) Create(ctx context.Context, b *model.Book, genreIDs []int64) error {
	return m.createFn(ctx, b, genreIDs)
}
func (m *repoMock) List(ctx context.Context) ([]model.Book, error) { return m.listFn(ctx) }
func (m *repoMock) Detail(ctx context.Context, id int64) (*model.Book, error) {
	return m.detailFn(ctx, id)
}
func (m *repoMock) ListByAuthor(ctx context.Context, authorID int64) ([]model.Book, error) {
	return m.listByAuthFn(ctx, authorID)
}
func (m *repoMock) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }
func (m *repoMock) SetCoverKey(ctx context.Context, id int64, key string) error {
	return m.setCoverKeyFn(ctx, id, key)
}
func (m *repoMock) SetFileKey(ctx context.Context, id int64, key string) error {
	return m.setFileKeyFn(ctx, id, key)
}

type storeMock struct {
	putKeys []string
	delKeys []string
	putErr  error
}

func (s *storeMock) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.putKeys = append(s.putKeys, key)
	return nil
}
func (s *storeMock) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://example/" + key, nil
}
func (s *storeMock) Delete(ctx context.Context, key string) error {
	s.delKeys = append(s.delKeys, key)
	return nil
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{}, &storeMock{})
	if _, err := s.Create(context.Background(), model.CreateBookReq{Title: "", ISBN: "9780441013593"}); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatal("expected bad input for empty title")
	}
	if _, err := s.Create(context.Background(), model.CreateBookReq{Title: "Dune", ISBN: "123"}); booksvc.Code(err) != booksvc.ErrBadInput {
		t.Fatal("expected bad input for short isbn")
	}
}

func TestCreate_Success(t *testing.T) {
	author := int64(7)
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book, genreIDs []int64) error {
			if b.Title != "Dune" || b.ISBN != "9780441013593" || len(genreIDs) != 1 {
				return errors.New("bad args")
			}
			b.ID = 42
			return nil
		},
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{
				ID: id, Title: "Dune", ISBN: "9780441013593", AuthorID: &author,
				Genres: []model.Genre{{ID: 1, Name: "SciFi"}},
			}, nil
		},
	}
	s := booksvc.New(m, &storeMock{})
	b, err := s.Create(context.Background(), model.CreateBookReq{
		Title: "Dune", Summary: "Spice", ISBN: "9780441013593",
		AuthorID: &author, GenreIDs: []int64{1},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if b.ID != 42 || b.DisplayGenre() != "SciFi" || b.AbsoluteURL() != "/book/42" {
		t.Fatalf("unexpected book %+v", b)
	}
}

func TestCreate_DuplicateMapping(t *testing.T) {
	cases := []struct {
		name     string
		pgErr    *pgconn.PgError
		wantCode booksvc.ErrCode
	}{
		{"isbn taken", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_isbn_key"}, booksvc.ErrISBNTaken},
		{"title+author taken", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "books_title_author_key"}, booksvc.ErrDuplicateTitle},
		{"unknown genre", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "book_genres_genre_id_fkey"}, booksvc.ErrBadReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &repoMock{
				createFn: func(ctx context.Context, b *model.Book, genreIDs []int64) error {
					return tc.pgErr
				},
			}
			s := booksvc.New(m, &storeMock{})
			_, err := s.Create(context.Background(), model.CreateBookReq{Title: "Dune", ISBN: "9780441013593"})
			if booksvc.Code(err) != tc.wantCode {
				t.Fatalf("got %v; want %v", booksvc.Code(err), tc.wantCode)
			}
		})
	}
}

func TestDelete_RestrictedWhileCopiesExist(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Dune"}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			return &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "book_instances_book_id_fkey"}
		},
	}
	s := booksvc.New(m, &storeMock{})
	if err := s.Delete(context.Background(), 1); booksvc.Code(err) != booksvc.ErrInUse {
		t.Fatalf("got %v; want ErrInUse", err)
	}
}

func TestDetail_PresignsDownloadLinks(t *testing.T) {
	cover := "cover/books/5/dune.png"
	file := "books/5/file/dune.epub"
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Dune", CoverKey: &cover, FileKey: &file}, nil
		},
	}
	s := booksvc.New(m, &storeMock{})

	b, err := s.Detail(context.Background(), 5)
	if err != nil {
		t.Fatalf("Detail error: %v", err)
	}
	if b.CoverURL != "http://example/"+cover {
		t.Fatalf("CoverURL = %q", b.CoverURL)
	}
	if b.FileURL != "http://example/"+file {
		t.Fatalf("FileURL = %q", b.FileURL)
	}
}

func TestDetail_NoKeysNoLinks(t *testing.T) {
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Dune"}, nil
		},
	}
	s := booksvc.New(m, &storeMock{})

	b, err := s.Detail(context.Background(), 5)
	if err != nil {
		t.Fatalf("Detail error: %v", err)
	}
	if b.CoverURL != "" || b.FileURL != "" {
		t.Fatalf("unexpected links %q %q", b.CoverURL, b.FileURL)
	}
}

func TestDelete_RemovesStoredObjects(t *testing.T) {
	cover := "cover/books/5/dune.png"
	file := "books/5/file/dune.epub"
	m := &repoMock{
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Dune", CoverKey: &cover, FileKey: &file}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	store := &storeMock{}
	s := booksvc.New(m, store)

	if err := s.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(store.delKeys) != 2 || store.delKeys[0] != cover || store.delKeys[1] != file {
		t.Fatalf("deleted keys = %v", store.delKeys)
	}
}

func TestUploadCover_RejectsOversized(t *testing.T) {
	store := &storeMock{}
	s := booksvc.New(&repoMock{}, store)
	_, err := s.UploadCover(context.Background(), 1, "big.png", "image/png",
		upload.MaxImageBytes+1, bytes.NewReader(nil))
	if !errors.Is(err, upload.ErrImageTooLarge) {
		t.Fatalf("got %v; want ErrImageTooLarge", err)
	}
	if len(store.putKeys) != 0 {
		t.Fatal("oversized upload must not reach the store")
	}
}

func TestUploadCover_StoresUnderCoverPrefix(t *testing.T) {
	store := &storeMock{}
	m := &repoMock{
		setCoverKeyFn: func(ctx context.Context, id int64, key string) error {
			if id != 5 || !strings.HasPrefix(key, "cover/books/5/") {
				return errors.New("bad key")
			}
			return nil
		},
	}
	s := booksvc.New(m, store)
	key, err := s.UploadCover(context.Background(), 5, "dune.png", "image/png",
		1024, bytes.NewReader(make([]byte, 1024)))
	if err != nil {
		t.Fatalf("UploadCover error: %v", err)
	}
	if key != "cover/books/5/dune.png" {
		t.Fatalf("key = %q", key)
	}
	if len(store.putKeys) != 1 || store.putKeys[0] != key {
		t.Fatalf("store keys = %v", store.putKeys)
	}
}

func TestUploadFile_NoSizeCap(t *testing.T) {
	store := &storeMock{}
	m := &repoMock{
		setFileKeyFn: func(ctx context.Context, id int64, key string) error { return nil },
	}
	s := booksvc.New(m, store)
	_, err := s.UploadFile(context.Background(), 5, "dune.epub", "application/epub+zip",
		upload.MaxImageBytes*10, bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("book files have no 2MB cap: %v", err)
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context) ([]model.Book, error) { return nil, nil },
		detailFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id}, nil
		},
	}
	s := booksvc.New(m, &storeMock{})

	if _, err := s.List(context.Background()); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := s.Detail(context.Background(), 99); err != nil {
		t.Fatalf("Detail error: %v", err)
	}
}
