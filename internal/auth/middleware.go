package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKeyHandle is the context key for the authenticated handle
const ContextKeyHandle = "auth_handle"

// ClientIP resolves the caller address: first entry of X-Forwarded-For,
// then X-Real-Ip, then the loopback fallback.
func ClientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := c.Request().Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return "127.0.0.1"
}

// RequireBearer guards a route with the bearer challenge. Failures answer
// with a Bearer challenge indicator so clients can tell the schemes apart.
func RequireBearer(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			handle, err := svc.ResolveBearer(c.Request().Header.Get("Authorization"))
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid session",
				})
			}
			c.Set(ContextKeyHandle, handle)
			return next(c)
		}
	}
}

// RequireBasic guards a route with the password challenge (HTTP Basic).
func RequireBasic(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, password, ok := c.Request().BasicAuth()
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Basic")
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid credentials",
				})
			}

			handle, err := svc.VerifyPassword(username, password)
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Basic")
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "invalid credentials",
				})
			}
			c.Set(ContextKeyHandle, handle)
			return next(c)
		}
	}
}

// HandleFromContext retrieves the authenticated handle set by the
// middleware, or "" when the route ran unauthenticated.
func HandleFromContext(c echo.Context) string {
	handle, _ := c.Get(ContextKeyHandle).(string)
	return handle
}
