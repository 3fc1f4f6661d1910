package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/postblog/platform/internal/api/handler"
	"github.com/postblog/platform/internal/api/middleware"
	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

var userAuthorities = []string{
	domain.AuthorityPrefix + domain.RoleUser,
	domain.AuthorityPrefix + domain.RoleAdmin,
}

// Options is shared by every router.
type Options struct {
	// Service labels the HTTP request metrics (e.g. "user_service").
	Service string
	Logger  zerolog.Logger
	// Registry receives the HTTP request metrics and backs /metrics.
	// Defaults to the Prometheus default registry.
	Registry *prometheus.Registry
	// Health lists the dependencies checked by /health/ready.
	Health []handler.Pinger
}

// UserDeps wires the user service.
type UserDeps struct {
	Users         ports.UserService
	Sessions      ports.SessionService
	Authenticator ports.Authenticator
	Tokens        ports.TokenService
}

// PostDeps wires the post service. Tokens is optional: when set, bearer
// tokens are verified and the caller is recorded in the audit columns.
type PostDeps struct {
	Posts    ports.PostService
	Comments ports.CommentService
	Tokens   ports.TokenService
}

// GatewayDeps wires the data-integration gateway.
type GatewayDeps struct {
	Users ports.Upstream
	Posts ports.Upstream
}

// newEcho builds the Echo instance with the middleware and health routes common to
// all three binaries.
func newEcho(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  opts.Service,
		Registerer: registerer,
		Skipper:    isOperational,
	}))

	// --- Health checks and metrics (no auth required) ---
	health := handler.NewHealthHandler(opts.Health...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      isOperational,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// routeSet reports whether a request matched a registered route. Echo runs
// middleware before the not-found handler, so authentication skips unmatched
// requests and they answer 404 or 405. Call it after every route is added.
func routeSet(e *echo.Echo) func(echo.Context) bool {
	known := make(map[string]struct{})
	for _, r := range e.Routes() {
		known[r.Method+" "+r.Path] = struct{}{}
	}
	return func(c echo.Context) bool {
		_, ok := known[c.Request().Method+" "+c.Path()]
		return ok
	}
}

func isOperational(c echo.Context) bool {
	return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics"
}

// NewUserRouter builds the user service: the user directory, the login
// state machine and token issuance.
func NewUserRouter(opts Options, deps UserDeps) *echo.Echo {
	e := newEcho(opts)

	users := handler.NewUserHandler(deps.Users)
	sessions := handler.NewSessionHandler(deps.Sessions)
	auth := handler.NewAuthHandler(deps.Tokens)

	authenticated := middleware.RequirePrincipal()
	authorized := middleware.RequireAuthority(userAuthorities...)

	// --- Auth routes ---
	e.POST("/api/auth/token", auth.Token, authenticated)
	e.POST("/logout", auth.Logout)

	// --- User routes ---
	e.POST("/api/users", users.Create)
	e.GET("/api/users", users.List, authorized)
	e.GET("/api/users/:id", users.Get, authorized)
	e.PUT("/api/users/:id", users.Update, authorized)
	e.DELETE("/api/users/:id", users.Delete, authorized)
	e.GET("/api/users/username/:username", users.GetByUsername, authorized)
	e.POST("/api/users/:email/checkPassword", users.CheckPassword, authorized)

	// --- Session routes ---
	e.POST("/api/users/:id/login", sessions.Login, authorized)
	e.GET("/api/users/:id/login", sessions.IsLoggedIn, authorized)
	e.POST("/api/users/:id/logout", sessions.Logout, authorized)

	routed := routeSet(e)
	e.Use(middleware.Auth(middleware.AuthConfig{
		Basic:  deps.Authenticator,
		Bearer: deps.Tokens,
		Skipper: func(c echo.Context) bool {
			return !routed(c) || middleware.SkipSignup(c) || isOperational(c)
		},
	}))

	return e
}

// NewPostRouter builds the post service.
func NewPostRouter(opts Options, deps PostDeps) *echo.Echo {
	e := newEcho(opts)

	posts := handler.NewPostHandler(deps.Posts)
	comments := handler.NewCommentHandler(deps.Comments)

	// --- Post routes ---
	e.POST("/api/posts", posts.Create)
	e.GET("/api/posts", posts.List)
	e.GET("/api/posts/:id", posts.Get)
	e.PUT("/api/posts/:id", posts.Update)
	e.DELETE("/api/posts/:id", posts.Delete)

	// --- Comment routes ---
	e.POST("/api/comments", comments.Create)
	e.GET("/api/comments", comments.List)
	e.GET("/api/comments/:id", comments.Get)
	e.PUT("/api/comments/:id", comments.Update)
	e.DELETE("/api/comments/:id", comments.Delete)

	if deps.Tokens != nil {
		routed := routeSet(e)
		e.Use(middleware.Auth(middleware.AuthConfig{
			Bearer: deps.Tokens,
			Skipper: func(c echo.Context) bool {
				return !routed(c) || isOperational(c)
			},
		}))
	}

	return e
}

// NewGatewayRouter builds the data-integration gateway. Users go to the user
// service; posts and comments go to the post service.
func NewGatewayRouter(opts Options, deps GatewayDeps) *echo.Echo {
	e := newEcho(opts)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	proxy(e, "users", handler.NewProxyHandler("users", deps.Users, handler.EntityFallbacks, opts.Logger))
	proxy(e, "posts", handler.NewProxyHandler("posts", deps.Posts, handler.EntityFallbacks, opts.Logger))
	proxy(e, "comments", handler.NewProxyHandler("comments", deps.Posts, handler.CommentFallbacks, opts.Logger))

	return e
}

func proxy(e *echo.Echo, resource string, h *handler.ProxyHandler) {
	base := "/api/" + resource
	e.GET(base, h.List)
	e.GET(base+"/:id", h.Get)
	e.POST(base, h.Create)
	e.PUT(base+"/:id", h.Update)
	e.DELETE(base+"/:id", h.Delete)
}
