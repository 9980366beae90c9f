package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/empcore/employee-management/internal/api/metrics"
	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
)

// AuthService verifies stored credentials and issues tokens.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, audit ports.AuditSink, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit, logger: logger}
}

// Authenticate looks up the credential record and compares the password.
// Unknown username and wrong password both return ErrInvalidCredentials so the
// two failure paths are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.fail(username, "invalid_credentials")
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		s.fail(username, "invalid_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	roles := user.EffectiveRoles()
	token, expiresAt, err := s.tokens.Issue(user.Username, roles)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Enqueue(domain.AuthEvent{
		Username:  user.Username,
		Action:    domain.AuditLogin,
		Outcome:   "success",
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info().Str("username", user.Username).Strs("roles", roles).Msg("authentication successful")

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  user.Username,
		Roles:     roles,
	}, nil
}

func (s *AuthService) fail(username, reason string) {
	metrics.LoginsTotal.WithLabelValues(reason).Inc()
	s.audit.Enqueue(domain.AuthEvent{
		Username:  username,
		Action:    domain.AuditLogin,
		Outcome:   reason,
		Timestamp: time.Now().UTC(),
	})
	s.logger.Warn().Str("username", username).Msg("authentication failed")
}
