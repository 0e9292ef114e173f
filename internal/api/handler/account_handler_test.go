package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/campdir/bootcamp-api/internal/core/domain"
	"github.com/campdir/bootcamp-api/internal/core/ports"
)

type stubAccountAdminService struct {
	listFn   func(ctx context.Context) ([]domain.Account, error)
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
	createFn func(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateAccountInput) (*domain.Account, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubAccountAdminService) List(ctx context.Context) ([]domain.Account, error) {
	return s.listFn(ctx)
}

func (s *stubAccountAdminService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountAdminService) Create(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	return s.createFn(ctx, name, email, password, role)
}

func (s *stubAccountAdminService) Update(ctx context.Context, id string, in ports.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubAccountAdminService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestAccountHandler_List(t *testing.T) {
	stub := &stubAccountAdminService{
		listFn: func(_ context.Context) ([]domain.Account, error) {
			return []domain.Account{
				{ID: "1", Email: "a@x.com"},
				{ID: "2", Email: "b@x.com"},
			}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/users", "")

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	data, ok := resp["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_Create_AdminRole(t *testing.T) {
	stub := &stubAccountAdminService{
		createFn: func(_ context.Context, name, email, _ string, role domain.Role) (*domain.Account, error) {
			if role != domain.RoleAdmin {
				t.Fatalf("expected admin role, got %s", role)
			}
			return &domain.Account{ID: "1", Name: name, Email: email, Role: role}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/users",
		`{"name":"Root","email":"root@x.com","password":"secret1","role":"admin"}`)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAccountHandler_Create_UnknownRoleRejected(t *testing.T) {
	h := NewAccountHandler(&stubAccountAdminService{})

	c, _ := newTestContext(t, http.MethodPost, "/users",
		`{"name":"Root","email":"root@x.com","password":"secret1","role":"superuser"}`)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAccountHandler_Update_PassesInput(t *testing.T) {
	stub := &stubAccountAdminService{
		updateFn: func(_ context.Context, id string, in ports.UpdateAccountInput) (*domain.Account, error) {
			if id != "42" {
				t.Fatalf("unexpected id: %s", id)
			}
			if in.Role != domain.RolePublisher {
				t.Fatalf("unexpected role: %s", in.Role)
			}
			return &domain.Account{ID: id, Role: in.Role}, nil
		},
	}
	h := NewAccountHandler(stub)

	c, rec := newTestContext(t, http.MethodPut, "/users/42", `{"role":"publisher"}`)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccountHandler_Delete_NotFound(t *testing.T) {
	stub := &stubAccountAdminService{
		deleteFn: func(_ context.Context, id string) error {
			return domain.ErrAccountNotFound
		},
	}
	h := NewAccountHandler(stub)

	c, _ := newTestContext(t, http.MethodDelete, "/users/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.Delete(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound passthrough, got %v", err)
	}
}
