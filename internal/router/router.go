package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vaultexam/vaultexam-backend/internal/config"
	"github.com/vaultexam/vaultexam-backend/internal/handler"
	"github.com/vaultexam/vaultexam-backend/internal/middleware"
	"github.com/vaultexam/vaultexam-backend/internal/response"
	"github.com/vaultexam/vaultexam-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Test          *handler.TestHandler
	Submission    *handler.SubmissionHandler
	Correction    *handler.CorrectionHandler
	TeacherPortal *handler.TeacherPortalHandler
	Admin         *handler.AdminHandler
	WS            *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the public code-keyed routes, which would otherwise
	// invite code enumeration (30 requests per minute per IP).
	publicLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile route
		auth.GET("/me", middleware.RequireTeacherJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student-Facing Group (Public, Rate Limited) ────────────────
	public := router.Group("/api/v1")
	public.Use(publicLimiter.Middleware())
	{
		public.GET("/tests/:code", handlers.Test.Fetch)
		public.POST("/tests/:code/submissions", handlers.Submission.Submit)
		public.GET("/submissions/:id/correction", handlers.Correction.GetBySubmission)
	}

	// ─── 3. Teacher Group (JWT) ────────────────────────────────────────
	teacherAPI := router.Group("/api/v1")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		teacherAPI.POST("/tests", handlers.Test.Create)

		teacherAPI.GET("/teacher/tests", handlers.TeacherPortal.ListTests)
		teacherAPI.GET("/teacher/tests/:id/submissions", handlers.TeacherPortal.ListSubmissions)
		teacherAPI.GET("/teacher/submissions/suspicious", handlers.TeacherPortal.ListSuspicious)
		teacherAPI.PUT("/teacher/submissions/:id/score", handlers.TeacherPortal.SetScore)
		teacherAPI.POST("/teacher/submissions/:id/correction", handlers.TeacherPortal.CreateCorrection)
	}

	// ─── 4. WebSocket Group (Teacher WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTeacherWSAuth(authService))
	{
		ws.GET("/teacher/tests/:id/monitor", handlers.WS.MonitorTest)
	}

	// ─── 5. Admin Group (Static Token) ─────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminToken(cfg.AdminToken))
	{
		adminAPI.POST("/flush", handlers.Admin.Flush)
	}

	return router
}
