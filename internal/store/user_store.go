package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"userdir-backend/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateHandle = errors.New("username already exists")
)

// UserStore is the authoritative in-memory directory of accounts, keyed by
// folded (lowercased) username. All mutations run under one exclusive lock so
// the uniqueness check, id assignment and insertion are a single atomic unit.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*models.User

	now func() time.Time
}

// NewUserStore creates an empty user store
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*models.User),
		now:   time.Now,
	}
}

// Fold normalizes a username for uniqueness and lookup purposes.
func Fold(username string) string {
	return strings.ToLower(username)
}

// Create inserts a new account. The username is folded before the uniqueness
// check and storage; the id is one past the current maximum (1 for an empty
// directory). Ids are never reused, even after deactivation.
func (s *UserStore) Create(user *models.User) error {
	handle := Fold(user.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[handle]; exists {
		return ErrDuplicateHandle
	}

	var maxID int64
	for _, u := range s.users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	user.ID = maxID + 1
	user.Username = handle
	user.CreatedAt = s.now()
	user.IsActive = true
	user.LastLogin = nil

	s.users[handle] = user
	return nil
}

// GetByID retrieves an account by id
func (s *UserStore) GetByID(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u.Clone(), nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByHandle retrieves an account by username, folding it first
func (s *UserStore) GetByHandle(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[Fold(username)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

// Update applies the present fields of patch to the account with the given
// id. An inactive account is returned unchanged without error; that silent
// no-op is part of the store's contract. An empty email is treated as
// absent, not as a request to clear the address.
func (s *UserStore) Update(id int64, patch models.UpdateUserRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *models.User
	for _, u := range s.users {
		if u.ID == id {
			target = u
			break
		}
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if !target.IsActive {
		return target.Clone(), nil
	}

	if patch.Email != nil && *patch.Email != "" {
		target.Email = *patch.Email
	}
	if patch.Age != nil {
		target.Age = *patch.Age
	}
	if patch.Phone != nil {
		phone := *patch.Phone
		target.Phone = &phone
	}

	return target.Clone(), nil
}

// Deactivate marks the account inactive and reports whether it was active
// before the call. Repeat calls simply report false; there is no
// reactivation path.
func (s *UserStore) Deactivate(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			wasActive := u.IsActive
			u.IsActive = false
			return wasActive, nil
		}
	}
	return false, ErrUserNotFound
}

// RecordLogin stamps the account's last successful password authentication
func (s *UserStore) RecordLogin(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[Fold(username)]
	if !ok {
		return ErrUserNotFound
	}
	t := s.now()
	u.LastLogin = &t
	return nil
}

// Snapshot returns a point-in-time copy of every account. The copies are
// safe to sort and filter without holding the store's lock.
func (s *UserStore) Snapshot() []*models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	return out
}

// Count returns the total number of accounts
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// CountActive returns the number of accounts that have not been deactivated
func (s *UserStore) CountActive() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, u := range s.users {
		if u.IsActive {
			n++
		}
	}
	return n
}

// Emails returns every stored email address
func (s *UserStore) Emails() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Email)
	}
	return out
}
