package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hirewise-backend/internal/applications"
	googleauth "hirewise-backend/internal/auth"
	"hirewise-backend/internal/companies"
	"hirewise-backend/internal/interviews"
	"hirewise-backend/internal/services/health"
	"hirewise-backend/internal/shared/config"
	"hirewise-backend/internal/shared/metrics"
	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/server/respond"
	"hirewise-backend/internal/users"
)

const (
	rateGroupAuth   = "AUTH"
	rateGroupExport = "EXPORT"
)

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are
// skipped so tests can mount a subset.
type RouterDeps struct {
	Config             config.Config
	UserHandler        *users.Handler
	CompanyHandler     *companies.Handler
	ApplicationHandler *applications.Handler
	InterviewHandler   *interviews.Handler
	GoogleAuth         *googleauth.GoogleService
	Health             *health.Service
	Limiter            middleware.Limiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	respond.SetExposeDetails(!deps.Config.IsProduction())
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		metrics.Middleware(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	r.GET("/healthz", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(
		middleware.Auth(),
		middleware.RateLimit(rateLimitConfig(deps.Config, deps.Limiter)),
	)

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.CompanyHandler != nil {
		deps.CompanyHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	hr := api.Group("/hr", middleware.RequireRole(users.RoleHR, users.RoleAdmin))
	if deps.InterviewHandler != nil {
		deps.InterviewHandler.RegisterHRRoutes(hr)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(hr)
	}

	interviewer := api.Group("/interviewer", middleware.RequireRole(users.RoleInterviewer))
	if deps.InterviewHandler != nil {
		deps.InterviewHandler.RegisterInterviewerRoutes(interviewer)
	}

	return r
}

func rateLimitConfig(cfg config.Config, limiter middleware.Limiter) middleware.RateLimitConfig {
	rps := cfg.RateLimitRPS
	burst := cfg.RateLimitBurst
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":       {Rate: rps, Burst: burst},
			rateGroupAuth:   {Rate: rps / 5, Burst: max(1, burst/4)},
			rateGroupExport: {Rate: 1.0 / 30, Burst: 2},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.Request.URL.Path
			switch {
			case strings.HasPrefix(path, "/api/auth/"):
				return rateGroupAuth
			case strings.HasSuffix(path, "/export"):
				return rateGroupExport
			default:
				return ""
			}
		},
		Limiter: limiter,
	}
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
