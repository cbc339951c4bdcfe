package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations. Views are handed to
// the sink and registered off the request path.
type PostHandler struct {
	service ports.PostService
	views   ports.ViewSink
}

func NewPostHandler(service ports.PostService, views ports.ViewSink) *PostHandler {
	return &PostHandler{service: service, views: views}
}

type createPostRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags,omitempty"`
	Status  string   `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

type updatePostRequest struct {
	Title   *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Status  *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

type listPostsResponse struct {
	Posts      []domain.Post    `json:"posts"`
	Pagination ports.Pagination `json:"pagination"`
}

// List returns a page of posts with optional status/author/tag filters.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        status  query     string  false  "Filter by status"
// @Param        author  query     string  false  "Filter by author id"
// @Param        tag     query     string  false  "Filter by tag"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listPostsResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListPostsInput{
		Status:   c.QueryParam("status"),
		AuthorID: c.QueryParam("author"),
		Tag:      c.QueryParam("tag"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, listPostsResponse{Posts: page.Posts, Pagination: page.Pagination})
}

// Search returns posts matching the q term.
func (h *PostHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "search term is required"})
	}

	page, err := h.service.List(c.Request().Context(), ports.ListPostsInput{
		Search: q,
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, listPostsResponse{Posts: page.Posts, Pagination: page.Pagination})
}

// MyPosts returns the caller's posts.
func (h *PostHandler) MyPosts(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListPostsInput{
		AuthorID: userID,
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, listPostsResponse{Posts: page.Posts, Pagination: page.Pagination})
}

// Get returns a post by id and registers a deduplicated view.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id  path      string  true  "Post id"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	h.views.Enqueue(ports.PostViewInput{PostID: post.ID, ViewerKey: viewerKey(c)})

	return c.JSON(http.StatusOK, post)
}

// Create creates a new post authored by the caller.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      400   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	post, err := h.service.Create(c.Request().Context(), ports.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Status:  domain.PostStatus(req.Status),
	}, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// Update edits an owned post.
func (h *PostHandler) Update(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var status *domain.PostStatus
	if req.Status != nil {
		s := domain.PostStatus(*req.Status)
		status = &s
	}

	post, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Status:  status,
	}, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Publish marks an owned post published.
func (h *PostHandler) Publish(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	post, err := h.service.Publish(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// ToggleLike likes or unlikes a post for the caller.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	post, err := h.service.ToggleLike(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post; authors delete their own, admins any.
func (h *PostHandler) Delete(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), userID, isAdmin(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "post deleted successfully"})
}
