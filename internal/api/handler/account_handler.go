package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campdir/bootcamp-api/internal/core/domain"
	"github.com/campdir/bootcamp-api/internal/core/ports"
)

// AccountHandler exposes the admin-only account management endpoints.
type AccountHandler struct {
	accounts ports.AccountAdminService
}

func NewAccountHandler(accounts ports.AccountAdminService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

type updateAccountRequest struct {
	Name  string `json:"name" validate:"omitempty"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// List returns all accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      403  {object}  map[string]any
// @Router       /users [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: accounts})
}

// Get returns a single account by id.
//
// @Summary      Get account
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: account})
}

// Create adds an account with any role, including admin.
//
// @Summary      Create account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  envelope
// @Failure      409   {object}  map[string]any
// @Router       /users [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Create(c.Request().Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: account})
}

// Update mutates name, email, or role of an account.
//
// @Summary      Update account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Account id"
// @Param        body  body      updateAccountRequest  true  "Fields to update"
// @Success      200   {object}  envelope
// @Failure      404   {object}  map[string]any
// @Router       /users/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Update(c.Request().Context(), c.Param("id"), ports.UpdateAccountInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: account})
}

// Delete removes an account.
//
// @Summary      Delete account
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.accounts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Success: true, Data: map[string]any{}})
}
