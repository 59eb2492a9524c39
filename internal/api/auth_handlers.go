package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"userdir-backend/internal/auth"
	"userdir-backend/internal/models"
)

// loginHandler handles POST /login
func loginHandler(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ip := auth.ClientIP(c)
	session, user, err := authService.Login(req.Username, req.Password, ip)
	if err != nil {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Basic")
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "invalid username or password",
		})
	}

	audit(user.Username, models.ActionLogin, user.Username, nil, ip)

	return c.JSON(http.StatusOK, models.LoginResponse{
		Token:     session.Token,
		ExpiresIn: int(sessionTTL.Seconds()),
		UserID:    user.ID,
	})
}

// logoutHandler handles POST /logout. A missing or unknown token is still
// acknowledged with success.
func logoutHandler(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "no active session",
		})
	}

	token := strings.TrimPrefix(header, "Bearer ")
	authService.Logout(token)

	audit("", models.ActionLogout, "", nil, auth.ClientIP(c))

	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}
