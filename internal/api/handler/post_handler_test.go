package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-system/internal/api/middleware"
	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

type stubPostService struct {
	listFn       func(ctx context.Context, in ports.ListPostsInput) (*ports.PostPage, error)
	getFn        func(ctx context.Context, id string) (*domain.Post, error)
	createFn     func(ctx context.Context, in ports.CreatePostInput, authorID string) (*domain.Post, error)
	updateFn     func(ctx context.Context, id string, in ports.UpdatePostInput, userID string) (*domain.Post, error)
	publishFn    func(ctx context.Context, id, userID string) (*domain.Post, error)
	toggleLikeFn func(ctx context.Context, id, userID string) (*domain.Post, error)
	deleteFn     func(ctx context.Context, id, userID string, isAdmin bool) error
}

func (s *stubPostService) List(ctx context.Context, in ports.ListPostsInput) (*ports.PostPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubPostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) Create(ctx context.Context, in ports.CreatePostInput, authorID string) (*domain.Post, error) {
	return s.createFn(ctx, in, authorID)
}

func (s *stubPostService) Update(ctx context.Context, id string, in ports.UpdatePostInput, userID string) (*domain.Post, error) {
	return s.updateFn(ctx, id, in, userID)
}

func (s *stubPostService) Publish(ctx context.Context, id, userID string) (*domain.Post, error) {
	return s.publishFn(ctx, id, userID)
}

func (s *stubPostService) ToggleLike(ctx context.Context, id, userID string) (*domain.Post, error) {
	return s.toggleLikeFn(ctx, id, userID)
}

func (s *stubPostService) Delete(ctx context.Context, id, userID string, isAdmin bool) error {
	return s.deleteFn(ctx, id, userID, isAdmin)
}

func (s *stubPostService) RegisterView(ctx context.Context, view ports.PostViewInput) error {
	return nil
}

type stubViewSink struct {
	views []ports.PostViewInput
}

func (s *stubViewSink) Enqueue(view ports.PostViewInput) {
	s.views = append(s.views, view)
}

func TestPostHandler_List_PassesFilters(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		listFn: func(ctx context.Context, in ports.ListPostsInput) (*ports.PostPage, error) {
			if in.Status != "published" || in.Tag != "go" || in.Page != 2 || in.Limit != 5 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.PostPage{
				Posts:      []domain.Post{{ID: "post_1", Title: "hello"}},
				Pagination: ports.Pagination{Page: 2, Limit: 5, Total: 6, Pages: 2},
			}, nil
		},
	}
	handler := NewPostHandler(stub, &stubViewSink{})

	c, rec := newTestContext(e, http.MethodGet, "/api/posts?status=published&tag=go&page=2&limit=5", "")

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := resp["posts"]; !ok {
		t.Fatalf("expected posts in response: %+v", resp)
	}
	if _, ok := resp["pagination"]; !ok {
		t.Fatalf("expected pagination in response: %+v", resp)
	}
}

func TestPostHandler_Search_RequiresTerm(t *testing.T) {
	e := newTestEcho()
	handler := NewPostHandler(&stubPostService{}, &stubViewSink{})

	c, rec := newTestContext(e, http.MethodGet, "/api/posts/search", "")

	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostHandler_MyPosts_ScopesToCaller(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		listFn: func(ctx context.Context, in ports.ListPostsInput) (*ports.PostPage, error) {
			if in.AuthorID != "user_1" {
				t.Fatalf("expected author filter, got %+v", in)
			}
			return &ports.PostPage{Posts: []domain.Post{}, Pagination: ports.Pagination{Page: 1, Limit: 10}}, nil
		},
	}
	handler := NewPostHandler(stub, &stubViewSink{})

	c, rec := newTestContext(e, http.MethodGet, "/api/posts/my-posts", "")
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxRole, domain.RoleUser)

	if err := handler.MyPosts(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPostHandler_Get_EnqueuesView(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		getFn: func(ctx context.Context, id string) (*domain.Post, error) {
			return &domain.Post{ID: id, Title: "hello"}, nil
		},
	}
	sink := &stubViewSink{}
	handler := NewPostHandler(stub, sink)

	c, rec := newTestContext(e, http.MethodGet, "/api/posts/post_1", "")
	c.SetParamNames("id")
	c.SetParamValues("post_1")
	c.Set(middleware.CtxUserID, "user_1")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(sink.views) != 1 {
		t.Fatalf("expected 1 view enqueued, got %d", len(sink.views))
	}
	if sink.views[0].PostID != "post_1" || sink.views[0].ViewerKey != "user_1" {
		t.Fatalf("unexpected view: %+v", sink.views[0])
	}
}

func TestPostHandler_Get_AnonymousViewerKeyIsAddress(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		getFn: func(ctx context.Context, id string) (*domain.Post, error) {
			return &domain.Post{ID: id}, nil
		},
	}
	sink := &stubViewSink{}
	handler := NewPostHandler(stub, sink)

	c, _ := newTestContext(e, http.MethodGet, "/api/posts/post_1", "")
	c.SetParamNames("id")
	c.SetParamValues("post_1")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(sink.views) != 1 || sink.views[0].ViewerKey == "" {
		t.Fatalf("expected anonymous viewer key, got %+v", sink.views)
	}
}

func TestPostHandler_Get_NotFoundSkipsView(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		getFn: func(ctx context.Context, id string) (*domain.Post, error) {
			return nil, domain.ErrPostNotFound
		},
	}
	sink := &stubViewSink{}
	handler := NewPostHandler(stub, sink)

	c, rec := newTestContext(e, http.MethodGet, "/api/posts/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(sink.views) != 0 {
		t.Fatalf("no view should be enqueued for a missing post, got %d", len(sink.views))
	}
}

func TestPostHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		createFn: func(ctx context.Context, in ports.CreatePostInput, authorID string) (*domain.Post, error) {
			if authorID != "user_1" || in.Title != "hello" {
				t.Fatalf("unexpected args: %s %+v", authorID, in)
			}
			return &domain.Post{ID: "post_1", Title: in.Title, AuthorID: authorID, Status: domain.PostDraft}, nil
		},
	}
	handler := NewPostHandler(stub, &stubViewSink{})

	c, rec := newTestContext(e, http.MethodPost, "/api/posts",
		`{"title":"hello","content":"world","tags":["go"]}`)
	c.Set(middleware.CtxUserID, "user_1")
	c.Set(middleware.CtxRole, domain.RoleUser)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestPostHandler_Create_RejectsBadStatus(t *testing.T) {
	e := newTestEcho()
	handler := NewPostHandler(&stubPostService{}, &stubViewSink{})

	c, rec := newTestContext(e, http.MethodPost, "/api/posts",
		`{"title":"hello","content":"world","status":"pending"}`)
	c.Set(middleware.CtxUserID, "user_1")

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostHandler_Update_NotOwner(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		updateFn: func(ctx context.Context, id string, in ports.UpdatePostInput, userID string) (*domain.Post, error) {
			return nil, domain.ErrForbidden
		},
	}
	handler := NewPostHandler(stub, &stubViewSink{})

	c, _ := newTestContext(e, http.MethodPut, "/api/posts/post_1", `{"title":"stolen"}`)
	c.SetParamNames("id")
	c.SetParamValues("post_1")
	c.Set(middleware.CtxUserID, "user_2")

	if err := handler.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPostHandler_Publish(t *testing.T) {
	e := newTestEcho()
	stub := &stubPostService{
		publishFn: func(ctx context.Context, id, userID string) (*domain.Post, error) {
			if id != "post_1" || userID != "user_1" {
				t.Fatalf("unexpected args: %s %s", id, userID)
			}
			return &domain.Post{ID: id, Status: domain.PostPublished, Published: true}, nil
		},
	}
	handler := NewPostHandler(stub, &stubViewSink{})

	c, rec := newTestContext(e, http.MethodPatch, "/api/posts/post_1/publish", "")
	c.SetParamNames("id")
	c.SetParamValues("post_1")
	c.Set(middleware.CtxUserID, "user_1")

	if err := handler.Publish(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPostHandler_Delete_AdminFlag(t *testing.T) {
	e := newTestEcho()

	cases := []struct {
		name      string
		role      string
		wantAdmin bool
	}{
		{"regular user", domain.RoleUser, false},
		{"admin", domain.RoleAdmin, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotAdmin bool
			stub := &stubPostService{
				deleteFn: func(ctx context.Context, id, userID string, isAdmin bool) error {
					gotAdmin = isAdmin
					return nil
				},
			}
			handler := NewPostHandler(stub, &stubViewSink{})

			c, rec := newTestContext(e, http.MethodDelete, "/api/posts/post_1", "")
			c.SetParamNames("id")
			c.SetParamValues("post_1")
			c.Set(middleware.CtxUserID, "user_1")
			c.Set(middleware.CtxRole, tc.role)

			if err := handler.Delete(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if gotAdmin != tc.wantAdmin {
				t.Fatalf("expected isAdmin=%v, got %v", tc.wantAdmin, gotAdmin)
			}
		})
	}
}

func TestPostHandler_Create_NoClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewPostHandler(&stubPostService{}, &stubViewSink{})

	c, _ := newTestContext(e, http.MethodPost, "/api/posts", `{"title":"hello","content":"world"}`)

	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
