package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"userdir-backend/internal/auth"
	"userdir-backend/internal/models"
	"userdir-backend/internal/query"
	"userdir-backend/internal/store"
)

// createUserHandler handles POST /users (rate limited by caller address)
func createUserHandler(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := createAccount(req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateHandle) {
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "username already exists",
			})
		}
		logger.Error("create user failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to create user",
		})
	}

	audit(user.Username, models.ActionUserCreate, user.Username, map[string]interface{}{
		"user_id": user.ID,
	}, auth.ClientIP(c))

	return c.JSON(http.StatusCreated, user)
}

// createAccount runs the core create path shared by the single and bulk
// endpoints: hash the password, then insert under the directory lock.
func createAccount(req models.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: authService.Hasher().Digest(req.Password),
		Age:          req.Age,
		Phone:        req.Phone,
	}
	if err := users.Create(user); err != nil {
		return nil, err
	}
	return user.Clone(), nil
}

// listUsersHandler handles GET /users
func listUsersHandler(c echo.Context) error {
	limit := 10
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n > 100 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "limit must be an integer no greater than 100",
			})
		}
		limit = n
	}

	offset := 0
	if s := c.QueryParam("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "offset must be a non-negative integer",
			})
		}
		offset = n
	}

	sortBy := c.QueryParam("sort_by")
	if sortBy == "" {
		sortBy = query.SortByID
	}
	if !query.ValidSortBy(sortBy) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "sort_by must be one of id, username, created_at",
		})
	}

	order := c.QueryParam("order")
	if order == "" {
		order = query.OrderAsc
	}
	if !query.ValidOrder(order) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "order must be asc or desc",
		})
	}

	snapshot := users.Snapshot()
	query.SortUsers(snapshot, sortBy, order)
	return c.JSON(http.StatusOK, query.Paginate(snapshot, limit, offset))
}

// searchUsersHandler handles GET /users/search
func searchUsersHandler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "q is required",
		})
	}

	field := c.QueryParam("field")
	if field == "" {
		field = query.FieldAll
	}
	if !query.ValidField(field) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "field must be one of all, username, email",
		})
	}

	exact := false
	if s := c.QueryParam("exact"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "exact must be a boolean",
			})
		}
		exact = b
	}

	return c.JSON(http.StatusOK, query.Search(users.Snapshot(), q, field, exact))
}

// getUserHandler handles GET /users/:id
func getUserHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid user ID format: " + c.Param("id"),
		})
	}

	user, err := users.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "user not found",
		})
	}

	return c.JSON(http.StatusOK, user)
}

// updateUserHandler handles PUT /users/:id (bearer protected)
func updateUserHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid user ID format: " + c.Param("id"),
		})
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if enforceOwner {
		if denied := requireOwner(c, id); denied != nil {
			return denied
		}
	}

	user, err := users.Update(id, req)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "user not found",
			})
		}
		logger.Error("update user failed", zap.Int64("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to update user",
		})
	}

	audit(auth.HandleFromContext(c), models.ActionUserUpdate, user.Username, map[string]interface{}{
		"user_id": user.ID,
	}, auth.ClientIP(c))

	return c.JSON(http.StatusOK, user)
}

// deactivateUserHandler handles DELETE /users/:id (password-challenge
// protected). Deactivation is soft and monotonic; the id stays taken.
func deactivateUserHandler(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid user ID format: " + c.Param("id"),
		})
	}

	if enforceOwner {
		if denied := requireOwner(c, id); denied != nil {
			return denied
		}
	}

	wasActive, err := users.Deactivate(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "user not found",
		})
	}

	audit(auth.HandleFromContext(c), models.ActionUserDeactivate, strconv.FormatInt(id, 10), map[string]interface{}{
		"was_active": wasActive,
	}, auth.ClientIP(c))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "user deleted successfully",
		"was_active": wasActive,
	})
}

// bulkCreateUsersHandler handles POST /users/bulk. Each entry runs the same
// core create path with the loopback address, consuming that address's rate
// budget; entries that fail validation, uniqueness or the limiter are
// skipped.
func bulkCreateUsersHandler(c echo.Context) error {
	var reqs []models.CreateUserRequest
	if err := c.Bind(&reqs); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	created := []*models.User{}
	for _, req := range reqs {
		if err := c.Validate(&req); err != nil {
			continue
		}
		if !limiter.Admit("127.0.0.1") {
			continue
		}
		user, err := createAccount(req)
		if err != nil {
			continue
		}
		audit(user.Username, models.ActionUserCreate, user.Username, map[string]interface{}{
			"user_id": user.ID,
			"bulk":    true,
		}, "127.0.0.1")
		created = append(created, user)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"created": len(created),
		"users":   created,
	})
}

// requireOwner rejects the request when the authenticated handle does not
// own the target account. Only active when enforce_owner_match is set.
func requireOwner(c echo.Context, id int64) error {
	target, err := users.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "user not found",
		})
	}
	if target.Username != auth.HandleFromContext(c) {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "cannot modify another user's account",
		})
	}
	return nil
}

// audit writes a best-effort audit entry; failures are logged, never
// surfaced to the caller.
func audit(username, action, target string, details interface{}, ip string) {
	if auditRepo == nil {
		return
	}
	if err := auditRepo.Log(username, action, target, details, ip); err != nil {
		logger.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
