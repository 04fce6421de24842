package catalogsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"librarycatalog/model"
	catalogrepo "librarycatalog/repository/catalog"
	"librarycatalog/storage"
	"librarycatalog/util/upload"

	"github.com/google/uuid"
)

var ErrBadInput = errors.New("bad input")

type Summary = catalogrepo.Summary

type Service interface {
	CreateGenre(ctx context.Context, req model.CreateNamedReq) (*model.Genre, error)
	ListGenres(ctx context.Context) ([]model.Genre, error)
	CreateLanguage(ctx context.Context, req model.CreateNamedReq) (*model.Language, error)
	ListLanguages(ctx context.Context) ([]model.Language, error)
	CreateCover(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*model.Cover, error)
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	r     catalogrepo.Repo
	store storage.ObjectStore
}

func New(r catalogrepo.Repo, store storage.ObjectStore) Service {
	return &service{r: r, store: store}
}

func (s *service) CreateGenre(ctx context.Context, req model.CreateNamedReq) (*model.Genre, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrBadInput
	}
	g := &model.Genre{Name: name}
	if err := s.r.CreateGenre(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) ListGenres(ctx context.Context) ([]model.Genre, error) {
	return s.r.ListGenres(ctx)
}

func (s *service) CreateLanguage(ctx context.Context, req model.CreateNamedReq) (*model.Language, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrBadInput
	}
	l := &model.Language{Name: name}
	if err := s.r.CreateLanguage(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) ListLanguages(ctx context.Context) ([]model.Language, error) {
	return s.r.ListLanguages(ctx)
}

// CreateCover stores a standalone cover image (2MB cap) and records it.
func (s *service) CreateCover(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*model.Cover, error) {
	if err := upload.ValidateImageSize(size); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("covers/%s/%s", uuid.NewString(), filename)
	if err := s.store.Put(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}
	id, err := s.r.CreateCover(ctx, key)
	if err != nil {
		return nil, err
	}
	return &model.Cover{ID: id, ImageKey: &key}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) { return s.r.Summary(ctx) }
