package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campdir/bootcamp-api/internal/api/metrics"
	"github.com/campdir/bootcamp-api/internal/api/middleware"
	"github.com/campdir/bootcamp-api/internal/core/domain"
	"github.com/campdir/bootcamp-api/internal/core/ports"
)

// CookieOptions controls the session cookie attached to token responses.
type CookieOptions struct {
	TTL time.Duration
	// Secure is set in production-like deployments only.
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type updateDetailsRequest struct {
	Name  string `json:"name" validate:"omitempty"`
	Email string `json:"email" validate:"omitempty,email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// envelope is the uniform success response shape.
type envelope struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Register creates a new account and opens a session.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(account.Role)).Inc()
	return h.sendTokenResponse(c, http.StatusCreated, account, token)
}

// Login authenticates an email/password pair and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Only rejected credentials count as failed logins; validation
		// errors and infrastructure faults stay out of the series.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return h.sendTokenResponse(c, http.StatusOK, account, token)
}

// Logout clears the session cookie. Tokens are stateless, so logout is purely
// a client-side discard.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Path:     "/",
	})
	return c.JSON(http.StatusOK, envelope{Success: true, Data: map[string]any{}})
}

// Me returns the calling account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	account, err := h.authService.Account(c.Request().Context(), middleware.AccountID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: account})
}

// ForgotPassword starts the password reset flow. The response is identical
// whether or not the email is registered.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Router       /auth/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return c.JSON(http.StatusOK, envelope{Success: true, Data: "reset instructions sent if the email is registered"})
}

// ResetPassword consumes a reset token and sets a new password. A successful
// reset opens a session.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  envelope
// @Failure      401    {object}  map[string]any
// @Router       /auth/resetpassword/{token} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, token, err := h.authService.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed").Inc()
	return h.sendTokenResponse(c, http.StatusOK, account, token)
}

// UpdateDetails mutates the caller's name and email.
//
// @Summary      Update account details
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateDetailsRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]any
// @Router       /auth/updatedetails [put]
func (h *AuthHandler) UpdateDetails(c echo.Context) error {
	var req updateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.UpdateDetails(c.Request().Context(), middleware.AccountID(c), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: account})
}

// UpdatePassword changes the caller's password given the current one, and
// rotates the session token.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      401   {object}  map[string]any
// @Router       /auth/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.UpdatePassword(c.Request().Context(), middleware.AccountID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return h.sendTokenResponse(c, http.StatusOK, nil, token)
}

// sendTokenResponse sets the session cookie and returns the token in the
// body for bearer-style clients.
func (h *AuthHandler) sendTokenResponse(c echo.Context, status int, account *domain.Account, token string) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		Path:     "/",
	})

	resp := envelope{Success: true, Token: token}
	if account != nil {
		resp.Data = account
	}
	return c.JSON(status, resp)
}
