package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

type stubPostRepo struct {
	posts map[string]*domain.Post
	seq   int
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Tags = append([]string(nil), p.Tags...)
	clone.Likes = append([]string(nil), p.Likes...)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	copy := clonePost(post)
	r.seq++
	copy.ID = fmt.Sprintf("post_%d", r.seq)
	r.posts[copy.ID] = clonePost(copy)
	return copy, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if p, ok := r.posts[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) Update(_ context.Context, post *domain.Post) error {
	if _, ok := r.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) List(_ context.Context, input ports.ListPostsInput) ([]domain.Post, int64, error) {
	var out []domain.Post
	for _, p := range r.posts {
		if input.Status != "" && string(p.Status) != input.Status {
			continue
		}
		if input.AuthorID != "" && p.AuthorID != input.AuthorID {
			continue
		}
		out = append(out, *clonePost(p))
	}
	return out, int64(len(out)), nil
}

func (r *stubPostRepo) IncrementViews(_ context.Context, id string) error {
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Views++
	return nil
}

type stubViewGuard struct {
	seen map[string]bool
}

func newStubViewGuard() *stubViewGuard {
	return &stubViewGuard{seen: make(map[string]bool)}
}

func (g *stubViewGuard) key(postID, viewerKey string) string {
	return postID + ":" + viewerKey
}

func (g *stubViewGuard) Seen(_ context.Context, postID, viewerKey string) (bool, error) {
	return g.seen[g.key(postID, viewerKey)], nil
}

func (g *stubViewGuard) Mark(_ context.Context, postID, viewerKey string) error {
	g.seen[g.key(postID, viewerKey)] = true
	return nil
}

func newTestPostService() (*PostService, *stubPostRepo, *stubViewGuard) {
	repo := newStubPostRepo()
	guard := newStubViewGuard()
	return NewPostService(repo, guard, zerolog.Nop()), repo, guard
}

func TestPostService_Create_Defaults(t *testing.T) {
	svc, _, _ := newTestPostService()

	post, err := svc.Create(context.Background(), ports.CreatePostInput{
		Title:   "  Hello  ",
		Content: "world",
		Tags:    []string{" Go ", "", "Mongo"},
	}, "author_1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.Status != domain.PostDraft {
		t.Fatalf("expected default draft status, got %s", post.Status)
	}
	if post.Title != "Hello" {
		t.Fatalf("expected trimmed title, got %q", post.Title)
	}
	if len(post.Tags) != 2 || post.Tags[0] != "go" || post.Tags[1] != "mongo" {
		t.Fatalf("expected normalized tags, got %v", post.Tags)
	}
	if post.PublishedAt != nil {
		t.Fatalf("draft must not carry a publication time")
	}
}

func TestPostService_Create_PublishedStampsTime(t *testing.T) {
	svc, _, _ := newTestPostService()

	post, err := svc.Create(context.Background(), ports.CreatePostInput{
		Title:   "t",
		Content: "c",
		Status:  domain.PostPublished,
	}, "author_1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !post.Published || post.PublishedAt == nil {
		t.Fatalf("expected published post with timestamp, got %+v", post)
	}
}

func TestPostService_Update_OwnershipAndPublish(t *testing.T) {
	svc, _, _ := newTestPostService()

	post, err := svc.Create(context.Background(), ports.CreatePostInput{Title: "t", Content: "c"}, "author_1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(context.Background(), post.ID, ports.UpdatePostInput{}, "other"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}

	published := domain.PostPublished
	updated, err := svc.Update(context.Background(), post.ID, ports.UpdatePostInput{Status: &published}, "author_1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PublishedAt == nil {
		t.Fatalf("publishing via update must stamp published_at")
	}
	firstPublish := *updated.PublishedAt

	// archive and republish: the original timestamp survives
	archived := domain.PostArchived
	if _, err := svc.Update(context.Background(), post.ID, ports.UpdatePostInput{Status: &archived}, "author_1"); err != nil {
		t.Fatalf("archive: %v", err)
	}
	again, err := svc.Publish(context.Background(), post.ID, "author_1")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !again.PublishedAt.Equal(firstPublish) {
		t.Fatalf("republish must not move published_at: %v vs %v", again.PublishedAt, firstPublish)
	}
}

func TestPostService_ToggleLike(t *testing.T) {
	svc, _, _ := newTestPostService()

	post, err := svc.Create(context.Background(), ports.CreatePostInput{Title: "t", Content: "c"}, "author_1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	liked, err := svc.ToggleLike(context.Background(), post.ID, "reader_1")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if liked.LikeCount() != 1 || !liked.LikedBy("reader_1") {
		t.Fatalf("expected one like, got %+v", liked.Likes)
	}

	unliked, err := svc.ToggleLike(context.Background(), post.ID, "reader_1")
	if err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}
	if unliked.LikeCount() != 0 {
		t.Fatalf("expected like removed, got %+v", unliked.Likes)
	}
}

func TestPostService_Delete_AdminOverride(t *testing.T) {
	svc, repo, _ := newTestPostService()

	post, err := svc.Create(context.Background(), ports.CreatePostInput{Title: "t", Content: "c"}, "author_1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), post.ID, "other", false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), post.ID, "other", true); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, ok := repo.posts[post.ID]; ok {
		t.Fatalf("post should be removed")
	}
}

func TestPostService_RegisterView_Dedup(t *testing.T) {
	svc, repo, _ := newTestPostService()

	post, err := svc.Create(context.Background(), ports.CreatePostInput{Title: "t", Content: "c"}, "author_1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	view := ports.PostViewInput{PostID: post.ID, ViewerKey: "reader_1"}
	if err := svc.RegisterView(context.Background(), view); err != nil {
		t.Fatalf("RegisterView: %v", err)
	}
	if err := svc.RegisterView(context.Background(), view); err != nil {
		t.Fatalf("RegisterView repeat: %v", err)
	}
	if got := repo.posts[post.ID].Views; got != 1 {
		t.Fatalf("expected one counted view, got %d", got)
	}

	other := ports.PostViewInput{PostID: post.ID, ViewerKey: "reader_2"}
	if err := svc.RegisterView(context.Background(), other); err != nil {
		t.Fatalf("RegisterView other: %v", err)
	}
	if got := repo.posts[post.ID].Views; got != 2 {
		t.Fatalf("expected two counted views, got %d", got)
	}
}
