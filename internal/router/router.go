package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/nayeem-dv/socialdeck/backend/internal/auth"
	"github.com/nayeem-dv/socialdeck/backend/internal/handlers"
	"github.com/nayeem-dv/socialdeck/backend/internal/middleware"
	"github.com/nayeem-dv/socialdeck/backend/internal/oauth"
	"github.com/nayeem-dv/socialdeck/backend/internal/repositories"
	"github.com/nayeem-dv/socialdeck/backend/internal/respond"
	"github.com/nayeem-dv/socialdeck/backend/pkg/config"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) {
	e.HTTPErrorHandler = respond.ErrorHandler(cfg.Env)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db.Database)
	postRepo := repositories.NewMongoPostRepository(db.Database)
	commentRepo := repositories.NewMongoCommentRepository(db.Database)
	likeRepo := repositories.NewMongoLikeRepository(db.Database)

	// --- Services ---
	tokens := auth.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authRequired := middleware.JWTAuthMiddleware(tokens, userRepo)

	api := e.Group("/api")

	// Credential and profile routes
	authHandler := handlers.NewAuthHandler(userRepo, tokens, cfg)
	authHandler.RegisterUserAuthRoutes(api, authRequired)
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api, authRequired)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo)
	postHandler.RegisterPostRoutes(api, authRequired)
	log.Println("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(api, authRequired)
	log.Println("Comment routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo)
	likeHandler.RegisterLikeRoutes(api, authRequired)
	log.Println("Like routes configured.")

	// OAuth bridge and session routes
	authGroup := e.Group("/api/auth")
	oauthHandler := handlers.NewOAuthHandler(userRepo, tokens,
		oauth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBase+"/api/auth/google/callback"),
		oauth.NewGitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.OAuthRedirectBase+"/api/auth/github/callback"),
	)
	oauthHandler.RegisterOAuthRoutes(authGroup)
	authHandler.RegisterSessionRoutes(authGroup)
	log.Println("OAuth routes configured.")

	log.Println("All routes configured.")
}
