package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/empcore/employee-management/internal/api/metrics"
	"github.com/empcore/employee-management/internal/core/domain"
	"github.com/empcore/employee-management/internal/core/ports"
)

// AttemptLimiter throttles repeated login attempts per username.
type AttemptLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

type AuthHandler struct {
	authService    ports.AuthService
	accountService ports.AccountService
	tokens         ports.TokenService
	limiter        AttemptLimiter
}

func NewAuthHandler(authService ports.AuthService, accountService ports.AccountService, tokens ports.TokenService, limiter AttemptLimiter) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		tokens:         tokens,
		limiter:        limiter,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
}

type validateRequest struct {
	Token string `json:"token" validate:"required"`
}

type validateResponse struct {
	Username string `json:"username"`
	Valid    bool   `json:"valid"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

type redeemRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	ApprovalCode string `json:"approvalCode" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()

	if h.limiter != nil {
		ok, err := h.limiter.Allow(ctx, req.Username)
		if err != nil {
			return err
		}
		if !ok {
			metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": domain.ErrTooManyAttempts.Error()})
		}
	}

	result, err := h.authService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		}
		return err
	}

	if h.limiter != nil {
		_ = h.limiter.Reset(ctx, req.Username)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Username:  result.Username,
		Roles:     result.Roles,
	})
}

// Validate verifies a JWT token and returns the identity it carries.
//
// @Summary      Validate a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      validateRequest  true  "Token to validate"
// @Success      200   {object}  validateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/validate [post]
func (h *AuthHandler) Validate(c echo.Context) error {
	var req validateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "token is required"})
	}

	username, err := h.tokens.Validate(req.Token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	return c.JSON(http.StatusOK, validateResponse{Username: username, Valid: true})
}

// Register creates a new account through public self-registration.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.accountService.Register(c.Request().Context(), req.Username, req.Password, req.Role); err != nil {
		var invalidRoles *domain.InvalidRolesError
		switch {
		case errors.As(err, &invalidRoles):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": invalidRoles.Error() + ". Public registration allows only: ReadOnly."})
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "registration successful"})
}

// RedeemModerator grants the Moderator role in exchange for a valid approval code.
//
// @Summary      Redeem a Moderator approval code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      redeemRequest  true  "Credentials and approval code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/redeem-moderator [post]
func (h *AuthHandler) RedeemModerator(c echo.Context) error {
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	err := h.accountService.RedeemModeratorCode(c.Request().Context(), req.Username, req.Password, req.ApprovalCode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		case errors.Is(err, domain.ErrCodeInvalid):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "moderator role granted"})
}
