package domain

// Book is the single resource managed by the service. The ID is assigned by
// the store when the book is inserted and never changes afterwards.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookInput is a validated title/author pair. Both fields are guaranteed to
// hold non-empty text when produced by ValidateBookPayload.
type BookInput struct {
	Title  string
	Author string
}

// BookPayload is the raw, untyped shape of a create or update request body.
// Fields are left as any so that wrong JSON types are reported by the
// validator instead of failing the decode.
type BookPayload struct {
	Title  any `json:"title"  validate:"required,text"`
	Author any `json:"author" validate:"required,text"`
}

// WithID returns the persisted form of the input under the given identifier.
func (in BookInput) WithID(id string) Book {
	return Book{ID: id, Title: in.Title, Author: in.Author}
}
