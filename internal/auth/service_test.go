package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"userdir-backend/internal/models"
	"userdir-backend/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.UserStore, *store.SessionStore) {
	t.Helper()

	users := store.NewUserStore()
	sessions := store.NewSessionStore(24*time.Hour, false)
	hasher := NewStaticSaltHasher()
	svc := NewService(users, sessions, hasher, zap.NewNop())

	require.NoError(t, users.Create(&models.User{
		Username:     "john",
		Email:        "john@example.com",
		PasswordHash: hasher.Digest("pw123456"),
		Age:          30,
	}))
	return svc, users, sessions
}

func TestVerifyPasswordSuccess(t *testing.T) {
	svc, users, _ := newTestService(t)

	handle, err := svc.VerifyPassword("John", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "john", handle, "handle is folded before lookup")

	got, err := users.GetByHandle("john")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin, "password challenge stamps last authentication")
}

func TestVerifyPasswordFailures(t *testing.T) {
	svc, users, _ := newTestService(t)

	_, err := svc.VerifyPassword("john", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.VerifyPassword("nobody", "pw123456")
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := users.GetByHandle("john")
	require.NoError(t, err)
	assert.Nil(t, got.LastLogin, "failed challenges do not stamp last authentication")
}

func TestLoginIssuesSession(t *testing.T) {
	svc, users, sessions := newTestService(t)

	session, user, err := svc.Login("john", "pw123456", "10.1.2.3")
	require.NoError(t, err)
	assert.Len(t, session.Token, 32)
	assert.Equal(t, "john", session.Username)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, 1, sessions.Count())

	got, err := users.GetByHandle("john")
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}

func TestLoginFailures(t *testing.T) {
	svc, _, sessions := newTestService(t)

	_, _, err := svc.Login("john", "wrong", "10.1.2.3")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.Login("nobody", "pw123456", "10.1.2.3")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, 0, sessions.Count())
}

func TestLoginFailureDelayOrdering(t *testing.T) {
	svc, _, _ := newTestService(t)

	start := time.Now()
	_, _, _ = svc.Login("nobody", "pw123456", "10.1.2.3")
	unknownElapsed := time.Since(start)

	start = time.Now()
	_, _, _ = svc.Login("john", "wrong", "10.1.2.3")
	wrongElapsed := time.Since(start)

	// The two failure sub-cases use different delay constants; assert the
	// relative ordering, not exact durations.
	assert.Greater(t, wrongElapsed, unknownElapsed)
	assert.GreaterOrEqual(t, unknownElapsed, delayLoginUnknownUser)
	assert.GreaterOrEqual(t, wrongElapsed, delayLoginWrongPass)
}

func TestResolveBearer(t *testing.T) {
	svc, _, sessions := newTestService(t)
	session := sessions.Issue("john", "10.1.2.3")

	handle, err := svc.ResolveBearer("Bearer " + session.Token)
	require.NoError(t, err)
	assert.Equal(t, "john", handle)

	_, err = svc.ResolveBearer(session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized, "missing scheme prefix is rejected")

	_, err = svc.ResolveBearer("Bearer bogus")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ResolveBearer("Basic am9objpwdw==")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBearerResolutionDoesNotStampLastLogin(t *testing.T) {
	svc, users, sessions := newTestService(t)
	session := sessions.Issue("john", "10.1.2.3")

	_, err := svc.ResolveBearer("Bearer " + session.Token)
	require.NoError(t, err)

	got, err := users.GetByHandle("john")
	require.NoError(t, err)
	assert.Nil(t, got.LastLogin, "bearer-only operations never update last authentication")
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestService(t)
	session := sessions.Issue("john", "10.1.2.3")

	svc.Logout(session.Token)
	_, err := svc.ResolveBearer("Bearer " + session.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Unknown tokens are a no-op.
	svc.Logout("never-existed")
}
