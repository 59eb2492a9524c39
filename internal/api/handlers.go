package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userdir-backend/internal/models"
)

// rootHandler handles GET /
func rootHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "User Directory API",
		"version": APIVersion,
	})
}

// healthCheck handles GET /health
func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"users":     users.Count(),
		"sessions":  sessions.Count(),
	})
}

// buildStats assembles the aggregate counters. These are thin projections
// over store sizes, not part of the core.
func buildStats(includeDetails bool) map[string]interface{} {
	total := users.Count()
	active := users.CountActive()

	stats := map[string]interface{}{
		"total_users":     total,
		"active_users":    active,
		"inactive_users":  total - active,
		"active_sessions": sessions.Count(),
		"api_version":     APIVersion,
	}
	if includeDetails {
		stats["user_emails"] = users.Emails()
		stats["session_tokens"] = sessions.Tokens(5)
	}
	return stats
}

// statsHandler handles GET /stats
func statsHandler(c echo.Context) error {
	includeDetails := false
	if s := c.QueryParam("include_details"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "include_details must be a boolean",
			})
		}
		includeDetails = b
	}
	return c.JSON(http.StatusOK, buildStats(includeDetails))
}

// listAuditHandler handles GET /audit
func listAuditHandler(c echo.Context) error {
	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "limit must be an integer between 1 and 500",
			})
		}
		limit = n
	}

	logs, err := auditRepo.List(limit)
	if err != nil {
		logger.Error("list audit logs failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list audit logs",
		})
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}
	return c.JSON(http.StatusOK, logs)
}
