package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/pressroom/blog-system/docs"
	"github.com/pressroom/blog-system/internal/api/handler"
	"github.com/pressroom/blog-system/internal/api/middleware"
	"github.com/pressroom/blog-system/internal/core/domain"
	"github.com/pressroom/blog-system/internal/core/ports"
	"github.com/pressroom/blog-system/internal/core/token"
)

// Deps bundles everything the router mounts. Services and the view sink are
// constructed in main so the dispatcher lifecycle stays outside the HTTP layer.
type Deps struct {
	Auth   ports.AuthService
	Users  ports.UserService
	Posts  ports.PostService
	Views  ports.ViewSink
	Tokens *token.Codec
	DB     *mongo.Database
	Redis  *redis.Client
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("blog"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	authHandler := handler.NewAuthHandler(d.Auth, d.Users)
	userHandler := handler.NewUserHandler(d.Users)
	postHandler := handler.NewPostHandler(d.Posts, d.Views)

	authn := middleware.Authenticate(d.Tokens)
	optAuthn := middleware.OptionalAuthenticate(d.Tokens)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.DB, d.Redis)

	e.GET("/health", healthHandler.Liveness)         // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/change-password", authHandler.ChangePassword, authn)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.GET("/me", authHandler.Me, authn)
	auth.POST("/logout", authHandler.Logout, authn)

	// --- User routes ---
	users := e.Group("/api/users", authn)
	users.GET("", userHandler.List)
	users.GET("/search", userHandler.Search)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update, middleware.RequireOwnershipOrAdmin("id"))
	users.PATCH("/:id/role", userHandler.UpdateRole, adminOnly)
	users.DELETE("/:id", userHandler.Deactivate, adminOnly)
	users.DELETE("/:id/permanent", userHandler.Delete, adminOnly)

	// --- Post routes ---
	posts := e.Group("/api/posts")
	posts.GET("", postHandler.List, optAuthn)
	posts.GET("/search", postHandler.Search)
	posts.GET("/my-posts", postHandler.MyPosts, authn)
	posts.GET("/:id", postHandler.Get, optAuthn)
	posts.POST("", postHandler.Create, authn)
	posts.PUT("/:id", postHandler.Update, authn)
	posts.PATCH("/:id/publish", postHandler.Publish, authn)
	posts.PATCH("/:id/like", postHandler.ToggleLike, authn)
	posts.DELETE("/:id", postHandler.Delete, authn)

	return e
}
