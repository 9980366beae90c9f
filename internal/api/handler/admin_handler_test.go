package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
)

func TestAdminHandler_CreateUser_Success(t *testing.T) {
	account := &stubAccountService{}
	h := NewAdminHandler(account)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/users",
		`{"username":"carol","password":"pw","roles":["Admin","ReadOnly"]}`)
	if err := h.CreateUser(c); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if len(account.lastRoles) != 2 {
		t.Fatalf("roles passed = %v", account.lastRoles)
	}
}

func TestAdminHandler_CreateUser_InvalidRole(t *testing.T) {
	account := &stubAccountService{createErr: &domain.InvalidRolesError{Roles: []string{"Bogus"}}}
	h := NewAdminHandler(account)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/users",
		`{"username":"carol","password":"pw","roles":["Admin","Bogus"]}`)
	if err := h.CreateUser(c); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Bogus") {
		t.Fatalf("body should name the invalid role: %s", rec.Body.String())
	}
}

func TestAdminHandler_CreateUser_EmptyRoles(t *testing.T) {
	h := NewAdminHandler(&stubAccountService{})

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/users",
		`{"username":"carol","password":"pw","roles":[]}`)
	if err := h.CreateUser(c); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminHandler_GenerateApprovalCode(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	account := &stubAccountService{issueResult: &ports.ApprovalCodeResult{
		ID:        "abc123",
		Code:      "04217833",
		ExpiresAt: expires,
	}}
	h := NewAdminHandler(account)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/approval-codes", `{"expiresInHours":24}`)
	c.Set("username", "admin")
	c.Set("roles", []string{domain.RoleAdmin})
	if err := h.GenerateApprovalCode(c); err != nil {
		t.Fatalf("GenerateApprovalCode: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp generateCodeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != "04217833" || resp.ID != "abc123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if account.lastHours != 24 || account.lastBy != "admin" {
		t.Fatalf("service called with hours=%d issuedBy=%q", account.lastHours, account.lastBy)
	}
}

func TestAdminHandler_GenerateApprovalCode_OutOfRange(t *testing.T) {
	h := NewAdminHandler(&stubAccountService{})

	for _, body := range []string{`{"expiresInHours":0}`, `{"expiresInHours":169}`} {
		c, rec := newTestContext(t, http.MethodPost, "/api/admin/approval-codes", body)
		c.Set("username", "admin")
		if err := h.GenerateApprovalCode(c); err != nil {
			t.Fatalf("GenerateApprovalCode: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d for %s, want 400", rec.Code, body)
		}
	}
}

func TestAdminHandler_GenerateApprovalCode_MissingIdentity(t *testing.T) {
	h := NewAdminHandler(&stubAccountService{})

	c, _ := newTestContext(t, http.MethodPost, "/api/admin/approval-codes", `{"expiresInHours":24}`)
	err := h.GenerateApprovalCode(c)
	if err == nil {
		t.Fatal("expected error without identity in context")
	}
}
