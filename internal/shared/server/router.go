package server

import (
	"github.com/gin-gonic/gin"

	googleauth "jobtrack-backend/internal/auth"
	"jobtrack-backend/internal/coverletters"
	"jobtrack-backend/internal/genstream"
	"jobtrack-backend/internal/jobs"
	"jobtrack-backend/internal/profiles"
	"jobtrack-backend/internal/resumes"
	"jobtrack-backend/internal/sections"
	"jobtrack-backend/internal/services/health"
	"jobtrack-backend/internal/shared/config"
	"jobtrack-backend/internal/shared/metrics"
	"jobtrack-backend/internal/shared/server/middleware"
	"jobtrack-backend/internal/shared/server/respond"
	"jobtrack-backend/internal/users"
)

// RouterDeps carries the wired handlers for route registration.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	ProfilesHandler     *profiles.Handler
	ResumesHandler      *resumes.Handler
	SectionsHandler     *sections.Handler
	JobsHandler         *jobs.Handler
	CoverLettersHandler *coverletters.Handler
	GenerateHandler     *genstream.Handler
	UsersHandler        *users.Handler
	GoogleAuth          *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Registered before the middleware chain so scrapes skip auth.
	r.GET("/metrics", metrics.Handler())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, deps.Health.Status(c.Request.Context()))
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	deps.ProfilesHandler.RegisterRoutes(api)
	deps.ResumesHandler.RegisterRoutes(api)
	deps.SectionsHandler.RegisterRoutes(api)
	deps.JobsHandler.RegisterRoutes(api)
	deps.CoverLettersHandler.RegisterRoutes(api)
	deps.GenerateHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
