package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/handler"
	"github.com/graduat/graduat-backend/internal/middleware"
	"github.com/graduat/graduat-backend/internal/response"
	"github.com/graduat/graduat-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Assignment    *handler.AssignmentHandler
	StudentPortal *handler.StudentPortalHandler
	Notification  *handler.NotificationHandler
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

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/alumno/login", handlers.Auth.LoginAlumno)
		auth.POST("/maestro/login", handlers.Auth.LoginMaestro)
	}

	// ─── 2. Alumno Group (JWT) ─────────────────────────────────────────
	alumnoAPI := router.Group("/api/v1/alumno")
	alumnoAPI.Use(middleware.RequireAlumnoJWT(authService))
	{
		alumnoAPI.GET("/me", handlers.Auth.GetAlumnoProfile)
		alumnoAPI.GET("/asignaciones", handlers.StudentPortal.ListAssignments)
		alumnoAPI.GET("/resultados", handlers.StudentPortal.ListResults)
		alumnoAPI.GET("/tests/:testType/:testId", handlers.StudentPortal.GetTestPaper)
		alumnoAPI.POST("/tests/:testType/:testId/envio", handlers.StudentPortal.SubmitAnswers)
	}

	// ─── 3. Maestro Group (JWT) ────────────────────────────────────────
	maestroAPI := router.Group("/api/v1/maestro")
	maestroAPI.Use(middleware.RequireMaestroJWT(authService))
	{
		maestroAPI.GET("/me", handlers.Auth.GetMaestroProfile)
		maestroAPI.POST("/asignaciones", handlers.Assignment.CreateAssignments)
		maestroAPI.GET("/asignaciones", handlers.Assignment.ListAssignments)
		maestroAPI.DELETE("/asignaciones", handlers.Assignment.BulkClear)
		maestroAPI.GET("/tablero", handlers.Assignment.GetBoard)
		maestroAPI.GET("/notificaciones", handlers.Notification.ListUnread)
		maestroAPI.PUT("/notificaciones/:id/leida", handlers.Notification.MarkRead)
	}

	// ─── 4. WebSocket Group (Maestro WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireMaestroWSAuth(authService))
	{
		ws.GET("/maestro/notificaciones/stream", handlers.WS.NotificationStream)
	}

	return router
}
