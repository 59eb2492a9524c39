package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userdir-backend/internal/auth"
	"userdir-backend/internal/database"
	"userdir-backend/internal/store"
)

// APIVersion is reported by the banner, stats and health endpoints
const APIVersion = "1.0.0"

// Deps carries everything the handlers need. The stores are injected rather
// than reached as globals so tests can build a fresh instance per case.
type Deps struct {
	Users    *store.UserStore
	Sessions *store.SessionStore
	Auth     *auth.Service
	Limiter  *auth.RateLimiter
	Audit    *database.AuditRepo
	Logger   *zap.Logger

	SessionTTL time.Duration

	// EnforceOwnerMatch adds the subject==target check on update and
	// deactivate. Off by default: any authenticated identity may act on
	// any account.
	EnforceOwnerMatch bool
}

var (
	users        *store.UserStore
	sessions     *store.SessionStore
	authService  *auth.Service
	limiter      *auth.RateLimiter
	auditRepo    *database.AuditRepo
	logger       *zap.Logger
	sessionTTL   time.Duration
	enforceOwner bool
)

// RegisterRoutes sets up all routes on the echo instance
func RegisterRoutes(e *echo.Echo, d Deps) {
	users = d.Users
	sessions = d.Sessions
	authService = d.Auth
	limiter = d.Limiter
	auditRepo = d.Audit
	logger = d.Logger
	sessionTTL = d.SessionTTL
	enforceOwner = d.EnforceOwnerMatch

	e.Validator = NewRequestValidator()

	e.GET("/", rootHandler)
	e.GET("/health", healthCheck)
	e.GET("/stats", statsHandler)
	e.GET("/stats/ws", statsStreamHandler)
	e.GET("/audit", listAuditHandler)

	// Auth (login is exempt from the write limiter)
	e.POST("/login", loginHandler)
	e.POST("/logout", logoutHandler)

	// Users. The search route is static, so echo resolves it ahead of
	// /users/:id and it cannot be shadowed by the id route.
	e.POST("/users", createUserHandler, limiter.Middleware(auth.ClientIP))
	e.GET("/users", listUsersHandler)
	e.GET("/users/search", searchUsersHandler)
	e.GET("/users/:id", getUserHandler)
	e.PUT("/users/:id", updateUserHandler, auth.RequireBearer(authService))
	e.DELETE("/users/:id", deactivateUserHandler, auth.RequireBasic(authService))
	e.POST("/users/bulk", bulkCreateUsersHandler)
}
