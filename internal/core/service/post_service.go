package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressroom/blog-system/internal/api/metrics"
	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

// ViewGuard suppresses repeat views of the same post by the same viewer
// within the dedup window.
type ViewGuard interface {
	Seen(ctx context.Context, postID, viewerKey string) (bool, error)
	Mark(ctx context.Context, postID, viewerKey string) error
}

// PostService implements the post-resource use cases.
type PostService struct {
	posts  ports.PostRepository
	guard  ViewGuard
	logger zerolog.Logger
}

func NewPostService(posts ports.PostRepository, guard ViewGuard, logger zerolog.Logger) *PostService {
	return &PostService{posts: posts, guard: guard, logger: logger}
}

// List returns a page of posts, newest first, honouring the optional
// status/author/tag filters and search term.
func (s *PostService) List(ctx context.Context, input ports.ListPostsInput) (*ports.PostPage, error) {
	input.Page, input.Limit = ports.NormalizePage(input.Page, input.Limit)

	posts, total, err := s.posts.List(ctx, input)
	if err != nil {
		return nil, err
	}

	return &ports.PostPage{
		Posts:      posts,
		Pagination: ports.NewPagination(input.Page, input.Limit, total),
	}, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput, authorID string) (*domain.Post, error) {
	status := input.Status
	if status == "" {
		status = domain.PostDraft
	}
	if !domain.ValidPostStatus(status) {
		status = domain.PostDraft
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     strings.TrimSpace(input.Title),
		Content:   strings.TrimSpace(input.Content),
		AuthorID:  authorID,
		Tags:      normalizeTags(input.Tags),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == domain.PostPublished {
		post.MarkPublished(now)
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(created.Status)).Inc()
	s.logger.Info().Str("post_id", created.ID).Str("author_id", authorID).Msg("post created")
	return created, nil
}

// Update applies changes to an owned post. Moving the status to published
// stamps the publication time on first publish.
func (s *PostService) Update(ctx context.Context, id string, input ports.UpdatePostInput, userID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		post.Content = strings.TrimSpace(*input.Content)
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(input.Tags)
	}
	now := time.Now().UTC()
	if input.Status != nil && domain.ValidPostStatus(*input.Status) && *input.Status != post.Status {
		if *input.Status == domain.PostPublished {
			post.MarkPublished(now)
		} else {
			post.Status = *input.Status
		}
	}
	post.UpdatedAt = now

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Publish(ctx context.Context, id, userID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	post.MarkPublished(now)
	post.UpdatedAt = now

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", id).Msg("post published")
	return post, nil
}

// ToggleLike adds the caller to the likes set, or removes them if already
// present.
func (s *PostService) ToggleLike(ctx context.Context, id, userID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(userID) {
		likes := post.Likes[:0]
		for _, uid := range post.Likes {
			if uid != userID {
				likes = append(likes, uid)
			}
		}
		post.Likes = likes
	} else {
		post.Likes = append(post.Likes, userID)
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. Admins may delete any post, authors only their own.
func (s *PostService) Delete(ctx context.Context, id, userID string, isAdmin bool) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && post.AuthorID != userID {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("post_id", id).Bool("by_admin", isAdmin).Msg("post deleted")
	return nil
}

// RegisterView counts one read. Repeat views by the same viewer inside the
// guard window are suppressed. A guard outage degrades to counting every
// view rather than dropping them.
func (s *PostService) RegisterView(ctx context.Context, view ports.PostViewInput) error {
	seen, err := s.guard.Seen(ctx, view.PostID, view.ViewerKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("post_id", view.PostID).Msg("view guard unavailable")
	}
	if seen {
		metrics.PostViewsTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	if err := s.posts.IncrementViews(ctx, view.PostID); err != nil {
		return err
	}
	if err := s.guard.Mark(ctx, view.PostID, view.ViewerKey); err != nil {
		s.logger.Warn().Err(err).Str("post_id", view.PostID).Msg("view guard mark failed")
	}

	metrics.PostViewsTotal.WithLabelValues("counted").Inc()
	return nil
}

// normalizeTags trims, lowercases and drops empty tags.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
