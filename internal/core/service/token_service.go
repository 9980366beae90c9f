package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/empcore/employee-management/internal/api/metrics"
	"github.com/empcore/employee-management/internal/core/domain"
)

// TokenService issues and validates HMAC-SHA256 signed JWTs.
type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

func NewTokenService(secret, issuer, audience string, ttl time.Duration, logger zerolog.Logger) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests that simulate expiry.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token carrying the identity, a unique token id, issued-at and
// expiry claims, and one role entry per role. Role values may themselves be
// comma-delimited; entries are split and trimmed before encoding.
func (s *TokenService) Issue(username string, roles []string) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":      username,
		"username": username,
		"jti":      uuid.NewString(),
		"iat":      issuedAt.Unix(),
		"exp":      expiresAt.Unix(),
		"iss":      s.issuer,
		"aud":      s.audience,
		"roles":    splitRoles(roles),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	metrics.TokensIssuedTotal.Inc()
	s.logger.Debug().Str("username", username).Time("expires_at", expiresAt).Msg("token issued")
	return token, expiresAt, nil
}

// Validate verifies signature, signing method, issuer, audience and expiry
// with no clock-skew tolerance, and returns the identity claim. Every failure
// mode folds into domain.ErrInvalidToken; an invalid token is an expected
// outcome for the caller.
func (s *TokenService) Validate(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		s.logger.Warn().Err(err).Msg("token validation failed")
		return "", domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return "", domain.ErrInvalidToken
	}
	return username, nil
}

// splitRoles normalises role input into one claim entry per role.
func splitRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, entry := range roles {
		for _, role := range strings.Split(entry, ",") {
			if role = strings.TrimSpace(role); role != "" {
				out = append(out, role)
			}
		}
	}
	return out
}
