package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdir-backend/internal/models"
)

func openTestDB(t *testing.T) *AuditRepo {
	t.Helper()
	require.NoError(t, Open(Config{Path: ":memory:"}))
	t.Cleanup(func() { Close() })
	return NewAuditRepo()
}

func TestLogAndList(t *testing.T) {
	repo := openTestDB(t)

	require.NoError(t, repo.Log("john", models.ActionUserCreate, "john", map[string]interface{}{"user_id": 1}, "10.0.0.1"))
	require.NoError(t, repo.Log("john", models.ActionLogin, "john", nil, "10.0.0.1"))

	logs, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first.
	assert.Equal(t, models.ActionLogin, logs[0].Action)
	assert.Equal(t, models.ActionUserCreate, logs[1].Action)
	assert.Equal(t, `{"user_id":1}`, logs[1].Details)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestListHonorsLimit(t *testing.T) {
	repo := openTestDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log("john", models.ActionLogout, "", nil, ""))
	}

	logs, err := repo.List(3)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}
