package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type updateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user moderator"`
}

type listUsersResponse struct {
	Users      []domain.User    `json:"users"`
	Pagination ports.Pagination `json:"pagination"`
}

// List returns a page of active users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listUsersResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListUsersInput{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: page.Users, Pagination: page.Pagination})
}

// Search returns active users matching the q term.
//
// @Summary      Search users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  true  "Search term"
// @Success      200    {object}  listUsersResponse
// @Failure      400    {object}  map[string]string
// @Router       /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "search term is required")
	}

	page, err := h.service.List(c.Request().Context(), ports.ListUsersInput{
		Search: q,
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: page.Users, Pagination: page.Pagination})
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Get returns a user by id.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe updates the caller's own profile.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, _, err := ctxAuth(c)
	if err != nil {
		return err
	}
	return h.update(c, userID)
}

// Update updates a user by id. Ownership (or admin) is enforced by the
// route middleware.
func (h *UserHandler) Update(c echo.Context) error {
	return h.update(c, c.Param("id"))
}

func (h *UserHandler) update(c echo.Context, id string) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), id, ports.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateRole sets a user's role. Admin only.
//
// @Summary      Update user role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateRoleRequest  true  "New role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c echo.Context) error {
	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Role == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role is required")
	}

	user, err := h.service.UpdateRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Deactivate soft-deletes a user. Admin only.
func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.service.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted successfully"})
}

// Delete permanently removes a user. Admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user permanently deleted"})
}

// queryInt parses an integer query parameter, returning 0 when absent or
// invalid so the service applies its defaults.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
