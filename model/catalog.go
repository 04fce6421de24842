package model

// Genre is a book genre (e.g. Science Fiction, French Poetry).
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Language is a book's natural language (e.g. English, French, Japanese).
type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Cover is a standalone image attachment.
type Cover struct {
	ID       int64   `json:"id"`
	ImageKey *string `json:"image_key,omitempty"`
}

// CreateNamedReq covers genre and language creation
// swagger:model CreateNamedReq
type CreateNamedReq struct {
	Name string `json:"name" validate:"required,max=200"`
}
