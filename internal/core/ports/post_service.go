package ports

import (
	"context"

	"github.com/pressroom/blog-system/internal/core/domain"
)

// CreatePostInput carries the fields accepted when creating a post.
type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string
	Status  domain.PostStatus
}

// UpdatePostInput holds the mutable post fields. Nil means "leave unchanged".
type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    []string
	Status  *domain.PostStatus
}

// PostViewInput identifies one read of a post. ViewerKey is the
// authenticated user id, or the client address for anonymous readers.
type PostViewInput struct {
	PostID    string
	ViewerKey string
}

// ViewSink accepts view registrations without blocking the read path.
type ViewSink interface {
	Enqueue(view PostViewInput)
}

// PostPage is one page of posts.
type PostPage struct {
	Posts      []domain.Post
	Pagination Pagination
}

// PostService defines the post-resource use cases.
type PostService interface {
	List(ctx context.Context, input ListPostsInput) (*PostPage, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, input CreatePostInput, authorID string) (*domain.Post, error)
	Update(ctx context.Context, id string, input UpdatePostInput, userID string) (*domain.Post, error)
	Publish(ctx context.Context, id, userID string) (*domain.Post, error)
	ToggleLike(ctx context.Context, id, userID string) (*domain.Post, error)
	Delete(ctx context.Context, id, userID string, isAdmin bool) error
	// RegisterView counts one read of a post, deduplicated per viewer.
	RegisterView(ctx context.Context, view PostViewInput) error
}
