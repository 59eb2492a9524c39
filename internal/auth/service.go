package auth

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"userdir-backend/internal/models"
	"userdir-backend/internal/store"
)

var ErrUnauthorized = errors.New("invalid credentials")

// Artificial delays on the failure paths. The constants differ per path and
// a wrong password on the basic challenge sleeps not at all, so timing is
// not actually equalized across outcomes.
const (
	delayBasicUnknownUser = 100 * time.Millisecond
	delayLoginUnknownUser = 50 * time.Millisecond
	delayLoginWrongPass   = 100 * time.Millisecond
)

// Service is the auth gate: two independent challenge resolvers over the
// same directory, plus login, which chains the password challenge into
// session issuance. Neither resolver checks that the resolved identity owns
// the resource an operation targets; object-level authorization is an
// optional layer on top (see middleware).
type Service struct {
	users    *store.UserStore
	sessions *store.SessionStore
	hasher   Hasher
	logger   *zap.Logger
}

// NewService creates a new auth service
func NewService(users *store.UserStore, sessions *store.SessionStore, hasher Hasher, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}
}

// VerifyPassword resolves the password challenge: fold the handle, look it
// up, compare digests. Success stamps the account's last authentication
// time. The unknown-handle path sleeps before failing.
func (s *Service) VerifyPassword(username, password string) (string, error) {
	user, err := s.users.GetByHandle(username)
	if err != nil {
		time.Sleep(delayBasicUnknownUser)
		return "", ErrUnauthorized
	}

	if user.PasswordHash != s.hasher.Digest(password) {
		return "", ErrUnauthorized
	}

	if err := s.users.RecordLogin(user.Username); err != nil {
		s.logger.Warn("record login failed", zap.String("username", user.Username), zap.Error(err))
	}
	return user.Username, nil
}

// ResolveBearer resolves the bearer challenge: require the Bearer scheme
// prefix, strip it and look the token up in the session table.
func (s *Service) ResolveBearer(header string) (string, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", ErrUnauthorized
	}
	token := strings.TrimPrefix(header, "Bearer ")

	username, err := s.sessions.Resolve(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return username, nil
}

// Login runs the password challenge and issues a session on success. The two
// failure sub-cases sleep for different durations before returning.
func (s *Service) Login(username, password, ipAddress string) (*models.Session, *models.User, error) {
	user, err := s.users.GetByHandle(username)
	if err != nil {
		time.Sleep(delayLoginUnknownUser)
		return nil, nil, ErrUnauthorized
	}

	if user.PasswordHash != s.hasher.Digest(password) {
		time.Sleep(delayLoginWrongPass)
		return nil, nil, ErrUnauthorized
	}

	session := s.sessions.Issue(user.Username, ipAddress)

	if err := s.users.RecordLogin(user.Username); err != nil {
		s.logger.Warn("record login failed", zap.String("username", user.Username), zap.Error(err))
	}

	s.logger.Info("session issued",
		zap.String("username", user.Username),
		zap.String("ip", ipAddress),
	)
	return session, user, nil
}

// Logout revokes the session; revoking an unknown token is a no-op
func (s *Service) Logout(token string) {
	s.sessions.Revoke(token)
}

// Hasher exposes the credential hasher so account creation stores digests
// the password challenge can verify.
func (s *Service) Hasher() Hasher {
	return s.hasher
}
