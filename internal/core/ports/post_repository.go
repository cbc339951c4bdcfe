package ports

import (
	"context"

	"github.com/pressroom/blog-system/internal/core/domain"
)

// ListPostsInput carries the parameters for listing posts. Status, AuthorID
// and Tag are optional filters; Search, when non-empty, matches
// title/content/tags case-insensitively.
type ListPostsInput struct {
	Status   string
	AuthorID string
	Tag      string
	Search   string
	Page     int
	Limit    int
}

// PostRepository is the persistence contract for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input ListPostsInput) ([]domain.Post, int64, error)
	// IncrementViews bumps the view counter by one without rewriting the
	// document.
	IncrementViews(ctx context.Context, id string) error
}
