package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jobboard/api/internal/config"
	"jobboard/api/internal/metrics"
	"jobboard/api/internal/middleware"
	"jobboard/api/internal/security"
	"jobboard/api/internal/service"
)

type Services struct {
	Auth        *service.AuthService
	Users       *service.UserService
	Roles       *service.RoleService
	Permissions *service.PermissionService
	Jobs        *service.JobService
	Resumes     *service.ResumeService
	Subscribers *service.SubscriberService
	Files       *service.FileService
}

// HealthCheck is one dependency probed by /healthz.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	tokens  *security.TokenIssuer
	svc     Services
	metrics *metrics.Metrics
	limiter *middleware.IPRateLimiter
	checks  []HealthCheck
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	tokens *security.TokenIssuer,
	svc Services,
	m *metrics.Metrics,
	checks ...HealthCheck,
) HandlerSet {
	return HandlerSet{
		log:     log,
		cfg:     cfg,
		tokens:  tokens,
		svc:     svc,
		metrics: m,
		limiter: middleware.NewIPRateLimiter(cfg.Security.LoginRateLimit, cfg.Security.LoginBurst),
		checks:  checks,
	}
}

// Register mounts every route under router, which the server roots at /api.
// Permission keys stored in the database must use the resulting full route
// patterns, e.g. "DELETE /api/v1/jobs/:id".
func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	limited := middleware.RateLimit(h.limiter)
	auth := v1.Group("/auth")
	auth.POST("/login", limited, h.Login)
	auth.POST("/register", limited, h.RegisterUser)
	auth.POST("/refresh", h.Refresh)

	// public reads
	v1.GET("/jobs", h.ListJobs)
	v1.GET("/jobs/:id", h.GetJob)
	v1.GET("/subscribers", h.ListSubscribers)
	v1.GET("/subscribers/:id", h.GetSubscriber)

	// authenticated, permission-exempt
	authed := v1.Group("", middleware.Auth(h.tokens, h.metrics))
	authed.GET("/auth/account", h.Account)
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/subscribers/skills", h.SubscriberSkills)
	authed.PATCH("/subscribers", h.UpdateOwnSubscription)

	gated := authed.Group("", middleware.RequirePermission(h.metrics))

	gated.POST("/users", h.CreateUser)
	gated.GET("/users", h.ListUsers)
	gated.GET("/users/:id", h.GetUser)
	gated.PATCH("/users/:id", h.UpdateUser)
	gated.DELETE("/users/:id", h.DeleteUser)

	gated.POST("/roles", h.CreateRole)
	gated.GET("/roles", h.ListRoles)
	gated.GET("/roles/:id", h.GetRole)
	gated.PATCH("/roles/:id", h.UpdateRole)
	gated.DELETE("/roles/:id", h.DeleteRole)

	gated.POST("/permissions", h.CreatePermission)
	gated.GET("/permissions", h.ListPermissions)
	gated.GET("/permissions/:id", h.GetPermission)
	gated.PATCH("/permissions/:id", h.UpdatePermission)
	gated.DELETE("/permissions/:id", h.DeletePermission)

	gated.POST("/jobs", h.CreateJob)
	gated.PATCH("/jobs/:id", h.UpdateJob)
	gated.DELETE("/jobs/:id", h.DeleteJob)

	gated.POST("/resumes", h.CreateResume)
	gated.POST("/resumes/by-user", h.ResumesByUser)
	gated.GET("/resumes", h.ListResumes)
	gated.GET("/resumes/:id", h.GetResume)
	gated.PATCH("/resumes/:id", h.UpdateResumeStatus)
	gated.DELETE("/resumes/:id", h.DeleteResume)

	gated.POST("/subscribers", h.CreateSubscriber)
	gated.DELETE("/subscribers/:id", h.DeleteSubscriber)

	gated.POST("/files/upload", h.UploadFile)
}
