package catalogsvc_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"librarycatalog/model"
	catalogrepo "librarycatalog/repository/catalog"
	catalogsvc "librarycatalog/service/catalog"
	"librarycatalog/util/upload"
)

type repoMock struct {
	createGenreFn func(ctx context.Context, g *model.Genre) error
	createLangFn  func(ctx context.Context, l *model.Language) error
	createCoverFn func(ctx context.Context, key string) (int64, error)
	summaryFn     func(ctx context.Context) (*catalogrepo.Summary, error)
}

func (m *repoMock) CreateGenre(ctx context.Context, g *model.Genre) error {
	return m.createGenreFn(ctx, g)
}
func (m *repoMock) ListGenres(ctx context.Context) ([]model.Genre, error) { return nil, nil }
func (m *repoMock) CreateLanguage(ctx context.Context, l *model.Language) error {
	return m.createLangFn(ctx, l)
}
func (m *repoMock) ListLanguages(ctx context.Context) ([]model.Language, error) { return nil, nil }
func (m *repoMock) CreateCover(ctx context.Context, key string) (int64, error) {
	return m.createCoverFn(ctx, key)
}
func (m *repoMock) Summary(ctx context.Context) (*catalogrepo.Summary, error) {
	return m.summaryFn(ctx)
}

type storeMock struct{ putKeys []string }

func (s *storeMock) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.putKeys = append(s.putKeys, key)
	return nil
}
func (s *storeMock) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://example/" + key, nil
}
func (s *storeMock) Delete(ctx context.Context, key string) error { return nil }

func TestCreateGenre_TrimsAndRejectsEmpty(t *testing.T) {
	m := &repoMock{
		createGenreFn: func(ctx context.Context, g *model.Genre) error {
			g.ID = 3
			return nil
		},
	}
	s := catalogsvc.New(m, &storeMock{})

	g, err := s.CreateGenre(context.Background(), model.CreateNamedReq{Name: "  SciFi  "})
	if err != nil || g.Name != "SciFi" || g.ID != 3 {
		t.Fatalf("got %+v err=%v", g, err)
	}

	if _, err := s.CreateGenre(context.Background(), model.CreateNamedReq{Name: "   "}); !errors.Is(err, catalogsvc.ErrBadInput) {
		t.Fatalf("blank name should fail, got %v", err)
	}
}

func TestCreateCover_RejectsOversized(t *testing.T) {
	store := &storeMock{}
	s := catalogsvc.New(&repoMock{}, store)

	_, err := s.CreateCover(context.Background(), "big.png", "image/png",
		upload.MaxImageBytes+1, bytes.NewReader(nil))
	if !errors.Is(err, upload.ErrImageTooLarge) {
		t.Fatalf("got %v; want ErrImageTooLarge", err)
	}
	if len(store.putKeys) != 0 {
		t.Fatal("oversized upload must not reach the store")
	}
}

func TestCreateCover_StoresUnderCoversPrefix(t *testing.T) {
	store := &storeMock{}
	m := &repoMock{
		createCoverFn: func(ctx context.Context, key string) (int64, error) { return 11, nil },
	}
	s := catalogsvc.New(m, store)

	cov, err := s.CreateCover(context.Background(), "art.png", "image/png",
		512, bytes.NewReader(make([]byte, 512)))
	if err != nil {
		t.Fatalf("CreateCover error: %v", err)
	}
	if cov.ID != 11 || cov.ImageKey == nil {
		t.Fatalf("got %+v", cov)
	}
	if !strings.HasPrefix(*cov.ImageKey, "covers/") || !strings.HasSuffix(*cov.ImageKey, "/art.png") {
		t.Fatalf("key = %q", *cov.ImageKey)
	}
}

func TestSummary_PassThrough(t *testing.T) {
	m := &repoMock{
		summaryFn: func(ctx context.Context) (*catalogrepo.Summary, error) {
			return &catalogrepo.Summary{Books: 2, Instances: 5, InstancesAvailable: 3, Authors: 1}, nil
		},
	}
	s := catalogsvc.New(m, &storeMock{})

	sum, err := s.Summary(context.Background())
	if err != nil || sum.InstancesAvailable != 3 {
		t.Fatalf("got %+v err=%v", sum, err)
	}
}
