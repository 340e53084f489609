package articles

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("articles: not found")
	// ErrSlugTaken indicates a create collided with an existing slug.
	ErrSlugTaken = errors.New("articles: slug already exists")
)

// Article is a piece of content authored by a user. AuthorName and
// AuthorEmail are denormalized from the users table on reads; Content is
// only populated when a single article is fetched.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content,omitempty"`
	Slug        string    `json:"slug"`
	Published   bool      `json:"published"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
