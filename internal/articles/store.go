package articles

import "context"

// Store describes article persistence.
type Store interface {
	// List returns all articles newest first, without body content.
	List(ctx context.Context) ([]Article, error)
	Create(ctx context.Context, a *Article) error
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	SetPublished(ctx context.Context, id string, published bool) error
}
