package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
)

type AdminHandler struct {
	accountService ports.AccountService
}

func NewAdminHandler(accountService ports.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

type createUserRequest struct {
	Username string   `json:"username" validate:"required"`
	Password string   `json:"password" validate:"required"`
	Roles    []string `json:"roles" validate:"required,min=1"`
}

type generateCodeRequest struct {
	ExpiresInHours int `json:"expiresInHours" validate:"required,min=1,max=168"`
}

type generateCodeResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateUser provisions an account with an explicit role set.
//
// @Summary      Create a user with explicit roles
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.accountService.CreateUser(c.Request().Context(), req.Username, req.Password, req.Roles); err != nil {
		var invalidRoles *domain.InvalidRolesError
		switch {
		case errors.As(err, &invalidRoles):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidRoles.Error()})
		case errors.Is(err, domain.ErrRolesRequired):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "user created"})
}

// GenerateApprovalCode issues a Moderator approval code.
//
// @Summary      Generate a Moderator approval code
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      generateCodeRequest  true  "Code lifetime in hours (1-168)"
// @Success      201   {object}  generateCodeResponse
// @Failure      400   {object}  map[string]string
// @Router       /admin/approval-codes [post]
func (h *AdminHandler) GenerateApprovalCode(c echo.Context) error {
	issuedBy, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req generateCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "expiresInHours must be between 1 and 168"})
	}

	result, err := h.accountService.IssueApprovalCode(c.Request().Context(), req.ExpiresInHours, issuedBy)
	if err != nil {
		if errors.Is(err, domain.ErrCodeExpiryOutOfRange) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, generateCodeResponse{
		ID:        result.ID,
		Code:      result.Code,
		ExpiresAt: result.ExpiresAt,
	})
}
