package model

import (
	"fmt"
	"strings"
)

type Book struct {
	ID         int64    `json:"id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	ISBN       string   `json:"isbn"`
	AuthorID   *int64   `json:"author_id,omitempty"`
	AuthorName string   `json:"author_name,omitempty"`
	LanguageID *int64   `json:"language_id,omitempty"`
	Language   string   `json:"language,omitempty"`
	Genres     []Genre  `json:"genres,omitempty"`
	CoverKey   *string  `json:"cover_key,omitempty"`
	FileKey    *string  `json:"file_key,omitempty"`

	// Presigned download links, derived on detail reads; never persisted.
	CoverURL string `json:"cover_url,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
}

// DisplayGenre joins the names of the first three genres, for list views.
func (b *Book) DisplayGenre() string {
	names := make([]string, 0, 3)
	for _, g := range b.Genres {
		if len(names) == 3 {
			break
		}
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// AbsoluteURL returns the canonical path for this book.
func (b *Book) AbsoluteURL() string {
	return fmt.Sprintf("/book/%d", b.ID)
}

// CreateBookReq represents book creation payload
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title      string  `json:"title" validate:"required,max=200"`
	Summary    string  `json:"summary" validate:"required,max=1000"`
	ISBN       string  `json:"isbn" validate:"required,len=13"`
	AuthorID   *int64  `json:"author_id"`
	LanguageID *int64  `json:"language_id"`
	GenreIDs   []int64 `json:"genre_ids"`
}
