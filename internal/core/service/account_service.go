package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/empcore/employee-management/internal/api/metrics"
	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
)

const (
	minCodeHours = 1
	maxCodeHours = 168
)

// AccountService implements registration and the approval-code role
// escalation workflow.
type AccountService struct {
	users  ports.UserRepository
	codes  ports.ApprovalCodeRepository
	audit  ports.AuditSink
	logger zerolog.Logger
	now    func() time.Time
}

func NewAccountService(users ports.UserRepository, codes ports.ApprovalCodeRepository, audit ports.AuditSink, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, codes: codes, audit: audit, logger: logger, now: time.Now}
}

// WithClock overrides the time source. Intended for tests that simulate expiry.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// Register is public self-registration. The allow-list is the least-privileged
// role only; requesting anything else fails naming the disallowed role.
func (s *AccountService) Register(ctx context.Context, username, password, role string) error {
	canonical, ok := domain.CanonicalRole(role)
	if !ok || canonical != domain.RoleReadOnly {
		return &domain.InvalidRolesError{Roles: []string{role}}
	}

	user := &domain.User{
		Username: username,
		Password: password,
		Roles:    []string{canonical},
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("public").Inc()
	s.audit.Enqueue(domain.AuthEvent{
		Username:  username,
		Action:    domain.AuditRegister,
		Outcome:   "success",
		Timestamp: s.now().UTC(),
	})
	s.logger.Info().Str("username", username).Msg("user registered")
	return nil
}

// CreateUser is admin-driven creation: every requested role must be
// recognised or the whole request fails with the invalid roles listed.
func (s *AccountService) CreateUser(ctx context.Context, username, password string, roles []string) error {
	if len(roles) == 0 {
		return domain.ErrRolesRequired
	}

	canonical := make([]string, 0, len(roles))
	var invalid []string
	for _, role := range roles {
		c, ok := domain.CanonicalRole(role)
		if !ok {
			invalid = append(invalid, role)
			continue
		}
		canonical = appendRole(canonical, c)
	}
	if len(invalid) > 0 {
		return &domain.InvalidRolesError{Roles: invalid}
	}

	user := &domain.User{
		Username: username,
		Password: password,
		Roles:    canonical,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("admin").Inc()
	s.audit.Enqueue(domain.AuthEvent{
		Username:  username,
		Action:    domain.AuditCreateUser,
		Outcome:   "success",
		Timestamp: s.now().UTC(),
	})
	s.logger.Info().Str("username", username).Strs("roles", canonical).Msg("user created by admin")
	return nil
}

// IssueApprovalCode mints a single-use Moderator code valid for
// expiresInHours, bounded to 1-168 inclusive. The raw code is returned once
// and cannot be retrieved again through the service.
func (s *AccountService) IssueApprovalCode(ctx context.Context, expiresInHours int, issuedBy string) (*ports.ApprovalCodeResult, error) {
	if expiresInHours < minCodeHours || expiresInHours > maxCodeHours {
		return nil, domain.ErrCodeExpiryOutOfRange
	}

	code := &domain.ApprovalCode{
		Code:      generateCode(),
		Role:      domain.RoleModerator,
		ExpiresAt: s.now().UTC().Add(time.Duration(expiresInHours) * time.Hour),
		IssuedBy:  issuedBy,
	}

	id, err := s.codes.Create(ctx, code)
	if err != nil {
		return nil, err
	}

	metrics.ApprovalCodesIssuedTotal.Inc()
	s.audit.Enqueue(domain.AuthEvent{
		Username:  issuedBy,
		Action:    domain.AuditIssueCode,
		Outcome:   "success",
		Timestamp: s.now().UTC(),
	})
	s.logger.Info().Str("issued_by", issuedBy).Str("code_id", id).Time("expires_at", code.ExpiresAt).Msg("approval code issued")

	return &ports.ApprovalCodeResult{ID: id, Code: code.Code, ExpiresAt: code.ExpiresAt}, nil
}

// RedeemModeratorCode re-verifies the password, then consumes the code and
// widens the user's role set with Moderator. Users already holding Moderator
// succeed without the code being consumed.
func (s *AccountService) RedeemModeratorCode(ctx context.Context, username, password, code string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) != 1 {
		return domain.ErrInvalidCredentials
	}

	if user.HasRole(domain.RoleModerator) {
		metrics.CodeRedemptionsTotal.WithLabelValues("already_held").Inc()
		return nil
	}

	if err := s.codes.ValidateAndConsume(ctx, code, domain.RoleModerator); err != nil {
		metrics.CodeRedemptionsTotal.WithLabelValues("invalid").Inc()
		s.audit.Enqueue(domain.AuthEvent{
			Username:  username,
			Action:    domain.AuditRedeemCode,
			Outcome:   "invalid_code",
			Timestamp: s.now().UTC(),
		})
		return err
	}

	roles := appendRole(user.EffectiveRoles(), domain.RoleModerator)
	if err := s.users.SetRoles(ctx, username, roles); err != nil {
		return err
	}

	metrics.CodeRedemptionsTotal.WithLabelValues("granted").Inc()
	s.audit.Enqueue(domain.AuthEvent{
		Username:  username,
		Action:    domain.AuditRedeemCode,
		Outcome:   "success",
		Timestamp: s.now().UTC(),
	})
	s.logger.Info().Str("username", username).Msg("moderator role granted")
	return nil
}

// appendRole adds role to set unless already present.
func appendRole(set []string, role string) []string {
	for _, r := range set {
		if r == role {
			return set
		}
	}
	return append(set, role)
}

// generateCode returns an 8-decimal-digit approval code from crypto/rand.
func generateCode() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// fallback: derive from current nanoseconds
		return fmt.Sprintf("%08d", time.Now().UnixNano()%100000000)
	}
	return fmt.Sprintf("%08d", binary.BigEndian.Uint32(b[:])%100000000)
}
