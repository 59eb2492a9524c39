package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdir-backend/internal/models"
)

func newUser(username string) *models.User {
	return &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "digest",
		Age:          30,
	}
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	s := NewUserStore()

	a := newUser("alpha")
	require.NoError(t, s.Create(a))
	assert.Equal(t, int64(1), a.ID)
	assert.True(t, a.IsActive)
	assert.Nil(t, a.LastLogin)
	assert.False(t, a.CreatedAt.IsZero())

	b := newUser("beta")
	require.NoError(t, s.Create(b))
	assert.Equal(t, int64(2), b.ID)
}

func TestCreateFoldsHandle(t *testing.T) {
	s := NewUserStore()

	u := newUser("MixedCase")
	require.NoError(t, s.Create(u))
	assert.Equal(t, "mixedcase", u.Username)

	got, err := s.GetByHandle("MIXEDCASE")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestCreateRejectsDuplicateFoldedHandle(t *testing.T) {
	s := NewUserStore()
	require.NoError(t, s.Create(newUser("john")))

	err := s.Create(newUser("John"))
	assert.ErrorIs(t, err, ErrDuplicateHandle)
	assert.Equal(t, 1, s.Count())
}

func TestConcurrentCollidingCreates(t *testing.T) {
	s := NewUserStore()

	const workers = 32
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Create(newUser("collide"))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateHandle)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, s.Count())
}

func TestIDsNeverReusedAfterDeactivate(t *testing.T) {
	s := NewUserStore()

	a := newUser("first")
	require.NoError(t, s.Create(a))

	_, err := s.Deactivate(a.ID)
	require.NoError(t, err)

	b := newUser("second")
	require.NoError(t, s.Create(b))
	assert.Equal(t, int64(2), b.ID, "deactivation must not free ids")
}

func TestDeactivateReportsPriorState(t *testing.T) {
	s := NewUserStore()
	u := newUser("gone")
	require.NoError(t, s.Create(u))

	wasActive, err := s.Deactivate(u.ID)
	require.NoError(t, err)
	assert.True(t, wasActive)

	wasActive, err = s.Deactivate(u.ID)
	require.NoError(t, err)
	assert.False(t, wasActive, "second deactivation reports the account was already inactive")

	got, err := s.GetByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestDeactivateUnknownID(t *testing.T) {
	s := NewUserStore()
	_, err := s.Deactivate(42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateAppliesPresentFieldsOnly(t *testing.T) {
	s := NewUserStore()
	u := newUser("patchme")
	require.NoError(t, s.Create(u))

	newAge := 41
	got, err := s.Update(u.ID, models.UpdateUserRequest{Age: &newAge})
	require.NoError(t, err)
	assert.Equal(t, 41, got.Age)
	assert.Equal(t, "patchme@example.com", got.Email, "absent fields stay untouched")
	assert.Nil(t, got.Phone)

	email := "new@example.com"
	phone := "+15550001111"
	got, err = s.Update(u.ID, models.UpdateUserRequest{Email: &email, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+15550001111", *got.Phone)
	assert.Equal(t, 41, got.Age)
}

func TestUpdateIgnoresEmptyEmail(t *testing.T) {
	s := NewUserStore()
	u := newUser("keeper")
	require.NoError(t, s.Create(u))

	empty := ""
	newAge := 33
	got, err := s.Update(u.ID, models.UpdateUserRequest{Email: &empty, Age: &newAge})
	require.NoError(t, err)
	assert.Equal(t, "keeper@example.com", got.Email, "an empty email patch leaves the stored address alone")
	assert.Equal(t, 33, got.Age, "the rest of the patch still applies")
}

func TestUpdateInactiveAccountIsSilentNoOp(t *testing.T) {
	s := NewUserStore()
	u := newUser("frozen")
	require.NoError(t, s.Create(u))

	_, err := s.Deactivate(u.ID)
	require.NoError(t, err)

	newAge := 99
	got, err := s.Update(u.ID, models.UpdateUserRequest{Age: &newAge})
	require.NoError(t, err, "updating an inactive account is not an error")
	assert.Equal(t, 30, got.Age, "no field may change on an inactive account")
}

func TestUpdateUnknownID(t *testing.T) {
	s := NewUserStore()
	_, err := s.Update(7, models.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordLogin(t *testing.T) {
	s := NewUserStore()
	u := newUser("visitor")
	require.NoError(t, s.Create(u))

	require.NoError(t, s.RecordLogin("Visitor"))

	got, err := s.GetByHandle("visitor")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewUserStore()
	require.NoError(t, s.Create(newUser("snap")))

	snapshot := s.Snapshot()
	require.Len(t, snapshot, 1)
	snapshot[0].Email = "mutated@example.com"

	got, err := s.GetByHandle("snap")
	require.NoError(t, err)
	assert.Equal(t, "snap@example.com", got.Email, "mutating a snapshot must not touch the store")
}

func TestCountersAndEmails(t *testing.T) {
	s := NewUserStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(newUser(fmt.Sprintf("user%d", i))))
	}
	_, err := s.Deactivate(2)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, 2, s.CountActive())
	assert.Len(t, s.Emails(), 3)
}
