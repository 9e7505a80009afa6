package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"webappmanager/internal/authz"
	"webappmanager/internal/config"
	"webappmanager/internal/metrics"
	"webappmanager/internal/middleware"
	"webappmanager/internal/pages"
	"webappmanager/internal/permissions"
	"webappmanager/internal/service"
	"webappmanager/internal/session"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Config  *config.AppConfig
	Log     zerolog.Logger
	Codec   *session.Codec
	Tokens  *session.TokenIssuer
	Metrics *metrics.Registry
	Auth    *service.AuthService
	Users   *service.UserService
	Uploads *service.UploadService
	Checks  map[string]HealthCheck
	Now     func() time.Time
}

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	codec   *session.Codec
	tokens  *session.TokenIssuer
	metrics *metrics.Registry
	gate    *authz.Gate
	auth    *service.AuthService
	users   *service.UserService
	uploads *service.UploadService
	checks  map[string]HealthCheck
	now     func() time.Time
}

func NewHandlerSet(d Deps) HandlerSet {
	registerValidators()

	now := d.Now
	if now == nil {
		now = time.Now
	}
	h := HandlerSet{
		log:     d.Log,
		cfg:     d.Config,
		codec:   d.Codec,
		tokens:  d.Tokens,
		metrics: d.Metrics,
		auth:    d.Auth,
		users:   d.Users,
		uploads: d.Uploads,
		checks:  d.Checks,
		now:     now,
	}

	opts := []authz.Option{
		authz.WithClock(now),
		authz.WithMetrics(d.Metrics),
		authz.WithLogger(d.Log),
		authz.WithErrorHandler(h.renderError),
	}
	if d.Config.Session.LoginPath != "" {
		opts = append(opts, authz.WithLoginPath(d.Config.Session.LoginPath))
	}
	if d.Tokens != nil {
		opts = append(opts, authz.WithTokens(d.Tokens))
	}
	h.gate = authz.NewGate(d.Codec, opts...)
	return h
}

func (h HandlerSet) Gate() *authz.Gate {
	return h.gate
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login", middleware.RateLimit(h.cfg.Security.LoginRateLimit, time.Minute), h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.POST("/token", h.gate.RequireAPI(), h.IssueToken)

		media := api.Group("/media", h.gate.RequireAPI())
		media.GET("", h.ListMedia)
		media.POST("/upload", authz.RequireCapability(canAddData), h.UploadMedia)
		media.DELETE("/:id", authz.RequireCapability(canDeleteData), h.DeleteMedia)

		users := api.Group("/users", h.gate.RequireAPI())
		users.GET("", authz.RequireCapability(canManageUsers), h.ListUsers)
		users.POST("", authz.RequireCapability(canAddUsers), h.CreateUser)
		users.DELETE("/:id", authz.RequireCapability(canDeleteUsers), h.DeleteUser)
	}

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, defaultLanding) })
	router.GET("/login", h.LoginPage)
	router.GET("/privacy", h.PrivacyPage)
	router.GET("/dashboard", h.gate.Page(h.dashboardProps), h.page(pages.Dashboard, "dashboard.title"))
	router.GET("/gallery", h.gate.Page(h.galleryProps), h.page(pages.Gallery, "gallery.title"))
	router.GET("/users", h.gate.Page(h.usersProps), h.page(pages.Users, "users.title"))
}

func canAddData(c permissions.Capabilities) bool     { return c.CanAddData }
func canDeleteData(c permissions.Capabilities) bool  { return c.CanDeleteData }
func canManageUsers(c permissions.Capabilities) bool { return c.CanManageUsers }
func canAddUsers(c permissions.Capabilities) bool    { return c.CanAddUsers }
func canDeleteUsers(c permissions.Capabilities) bool { return c.CanDeleteUsers }
