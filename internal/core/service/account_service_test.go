package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/empcore/employee-management/internal/core/domain"
)

// stubCodeRepo serialises ValidateAndConsume the way the real store does:
// validation and consumption are one operation under a single lock.
type stubCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*domain.ApprovalCode
	now   func() time.Time
	next  int
}

func newStubCodeRepo() *stubCodeRepo {
	return &stubCodeRepo{codes: make(map[string]*domain.ApprovalCode), now: time.Now}
}

func (r *stubCodeRepo) Create(_ context.Context, code *domain.ApprovalCode) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	clone := *code
	clone.ID = fmt.Sprintf("code-%d", r.next)
	r.codes[clone.Code] = &clone
	return clone.ID, nil
}

func (r *stubCodeRepo) ValidateAndConsume(_ context.Context, code, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[code]
	if !ok || !c.Redeemable(role, r.now().UTC()) {
		return domain.ErrCodeInvalid
	}
	used := r.now().UTC()
	c.UsedAt = &used
	return nil
}

func newTestAccountService(users *stubUserRepo, codes *stubCodeRepo) *AccountService {
	return NewAccountService(users, codes, &stubAuditSink{}, zerolog.Nop())
}

func TestAccountService_Register_ReadOnlyAllowed(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAccountService(users, newStubCodeRepo())

	if err := svc.Register(context.Background(), "alice", "pw", "ReadOnly"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := users.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleReadOnly {
		t.Fatalf("unexpected roles: %v", user.Roles)
	}
}

func TestAccountService_Register_AdminRejected(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo(), newStubCodeRepo())

	err := svc.Register(context.Background(), "mallory", "pw", "Admin")
	var invalid *domain.InvalidRolesError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRolesError, got %v", err)
	}
	if len(invalid.Roles) != 1 || invalid.Roles[0] != "Admin" {
		t.Fatalf("expected the disallowed role named, got %v", invalid.Roles)
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	users := newStubUserRepo(&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleReadOnly}})
	svc := newTestAccountService(users, newStubCodeRepo())

	if err := svc.Register(context.Background(), "alice", "other", "ReadOnly"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_CreateUser_Success(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAccountService(users, newStubCodeRepo())

	if err := svc.CreateUser(context.Background(), "bob", "pw", []string{"admin", "Moderator"}); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	user, _ := users.FindByUsername(context.Background(), "bob")
	if len(user.Roles) != 2 || user.Roles[0] != domain.RoleAdmin || user.Roles[1] != domain.RoleModerator {
		t.Fatalf("expected canonical roles, got %v", user.Roles)
	}
}

func TestAccountService_CreateUser_InvalidRoleFailsWholesale(t *testing.T) {
	users := newStubUserRepo()
	svc := newTestAccountService(users, newStubCodeRepo())

	err := svc.CreateUser(context.Background(), "carol", "pw", []string{"Admin", "Bogus"})
	var invalid *domain.InvalidRolesError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRolesError, got %v", err)
	}
	if len(invalid.Roles) != 1 || invalid.Roles[0] != "Bogus" {
		t.Fatalf("expected exactly the invalid roles named, got %v", invalid.Roles)
	}

	// No partial record was created.
	if _, err := users.FindByUsername(context.Background(), "carol"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected no record, got %v", err)
	}
}

func TestAccountService_CreateUser_NoRoles(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo(), newStubCodeRepo())

	if err := svc.CreateUser(context.Background(), "carol", "pw", nil); !errors.Is(err, domain.ErrRolesRequired) {
		t.Fatalf("expected ErrRolesRequired, got %v", err)
	}
}

func TestAccountService_IssueApprovalCode_Bounds(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo(), newStubCodeRepo())

	for _, hours := range []int{0, -1, 169} {
		if _, err := svc.IssueApprovalCode(context.Background(), hours, "root"); !errors.Is(err, domain.ErrCodeExpiryOutOfRange) {
			t.Fatalf("hours=%d: expected ErrCodeExpiryOutOfRange, got %v", hours, err)
		}
	}

	result, err := svc.IssueApprovalCode(context.Background(), 168, "root")
	if err != nil {
		t.Fatalf("IssueApprovalCode returned error: %v", err)
	}
	if len(result.Code) != 8 {
		t.Fatalf("expected 8-digit code, got %q", result.Code)
	}
	if result.ID == "" {
		t.Fatalf("expected code id")
	}
}

func TestAccountService_Redeem_GrantsModerator(t *testing.T) {
	users := newStubUserRepo(&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleReadOnly}})
	codes := newStubCodeRepo()
	svc := newTestAccountService(users, codes)

	result, err := svc.IssueApprovalCode(context.Background(), 24, "root")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := svc.RedeemModeratorCode(context.Background(), "alice", "pw", result.Code); err != nil {
		t.Fatalf("RedeemModeratorCode returned error: %v", err)
	}

	user, _ := users.FindByUsername(context.Background(), "alice")
	if !user.HasRole(domain.RoleModerator) || !user.HasRole(domain.RoleReadOnly) {
		t.Fatalf("unexpected roles after redemption: %v", user.Roles)
	}
}

func TestAccountService_Redeem_SecondUseFails(t *testing.T) {
	users := newStubUserRepo(
		&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleReadOnly}},
		&domain.User{Username: "bob", Password: "pw", Roles: []string{domain.RoleReadOnly}},
	)
	codes := newStubCodeRepo()
	svc := newTestAccountService(users, codes)

	result, _ := svc.IssueApprovalCode(context.Background(), 24, "root")

	if err := svc.RedeemModeratorCode(context.Background(), "alice", "pw", result.Code); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}
	if err := svc.RedeemModeratorCode(context.Background(), "bob", "pw", result.Code); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid on reuse, got %v", err)
	}
}

func TestAccountService_Redeem_ExpiredCode(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base

	users := newStubUserRepo(&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleReadOnly}})
	codes := newStubCodeRepo()
	codes.now = func() time.Time { return clock }
	svc := newTestAccountService(users, codes).WithClock(func() time.Time { return clock })

	result, _ := svc.IssueApprovalCode(context.Background(), 1, "root")

	clock = base.Add(2 * time.Hour)
	if err := svc.RedeemModeratorCode(context.Background(), "alice", "pw", result.Code); !errors.Is(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid for expired code, got %v", err)
	}
}

func TestAccountService_Redeem_WrongPassword(t *testing.T) {
	users := newStubUserRepo(&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleReadOnly}})
	svc := newTestAccountService(users, newStubCodeRepo())

	if err := svc.RedeemModeratorCode(context.Background(), "alice", "wrong", "12345678"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.RedeemModeratorCode(context.Background(), "ghost", "pw", "12345678"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_Redeem_IdempotentWhenAlreadyModerator(t *testing.T) {
	users := newStubUserRepo(&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleModerator}})
	codes := newStubCodeRepo()
	svc := newTestAccountService(users, codes)

	result, _ := svc.IssueApprovalCode(context.Background(), 24, "root")

	// Succeeds without consuming the code or duplicating the role.
	if err := svc.RedeemModeratorCode(context.Background(), "alice", "pw", result.Code); err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}

	user, _ := users.FindByUsername(context.Background(), "alice")
	if len(user.Roles) != 1 {
		t.Fatalf("role set has duplicates: %v", user.Roles)
	}
	if err := codes.ValidateAndConsume(context.Background(), result.Code, domain.RoleModerator); err != nil {
		t.Fatalf("code should still be consumable, got %v", err)
	}
}

func TestAccountService_Redeem_Concurrent(t *testing.T) {
	users := newStubUserRepo(
		&domain.User{Username: "alice", Password: "pw", Roles: []string{domain.RoleReadOnly}},
		&domain.User{Username: "bob", Password: "pw", Roles: []string{domain.RoleReadOnly}},
	)
	codes := newStubCodeRepo()
	svc := newTestAccountService(users, codes)

	result, _ := svc.IssueApprovalCode(context.Background(), 24, "root")

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, username := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			errs <- svc.RedeemModeratorCode(context.Background(), u, "pw", result.Code)
		}(username)
	}
	wg.Wait()
	close(errs)

	var successes, invalids int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrCodeInvalid):
			invalids++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || invalids != 1 {
		t.Fatalf("expected exactly one success, got %d successes and %d invalids", successes, invalids)
	}
}
