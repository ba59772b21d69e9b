package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hengonghuat/cafe-backend/api/middleware"
	"github.com/hengonghuat/cafe-backend/internal/customers"
	pkgerrors "github.com/hengonghuat/cafe-backend/pkg/errors"
)

type stubCustomersService struct {
	register func(ctx context.Context, input customers.RegisterInput) (int64, error)
	login    func(ctx context.Context, input customers.LoginInput) (*customers.LoginResult, error)
	profile  func(ctx context.Context, customerID int64) (*customers.ProfileDTO, error)
}

func (s stubCustomersService) Register(ctx context.Context, input customers.RegisterInput) (int64, error) {
	return s.register(ctx, input)
}

func (s stubCustomersService) Login(ctx context.Context, input customers.LoginInput) (*customers.LoginResult, error) {
	return s.login(ctx, input)
}

func (s stubCustomersService) ForgotPassword(ctx context.Context, email string) error {
	panic("unimplemented")
}

func (s stubCustomersService) Profile(ctx context.Context, customerID int64) (*customers.ProfileDTO, error) {
	return s.profile(ctx, customerID)
}

func (s stubCustomersService) UpdateProfile(ctx context.Context, customerID int64, input customers.ProfileUpdateInput) error {
	panic("unimplemented")
}

func (s stubCustomersService) AdminUpdate(ctx context.Context, customerID int64, input customers.AdminUpdateInput) error {
	panic("unimplemented")
}

func (s stubCustomersService) Delete(ctx context.Context, customerID int64) error {
	panic("unimplemented")
}

func (s stubCustomersService) CRM(ctx context.Context) ([]customers.CRMEntry, error) {
	panic("unimplemented")
}

func (s stubCustomersService) TopCustomers(ctx context.Context) ([]customers.TopCustomerDTO, error) {
	panic("unimplemented")
}

func (s stubCustomersService) ActiveCustomers(ctx context.Context) ([]customers.ActiveDay, error) {
	panic("unimplemented")
}

func TestCustomerRegisterReturnsCreated(t *testing.T) {
	svc := stubCustomersService{
		register: func(ctx context.Context, input customers.RegisterInput) (int64, error) {
			if input.CustomerName != "alice" {
				t.Fatalf("unexpected input %+v", input)
			}
			return 5, nil
		},
	}

	payload := `{"customerName":"alice","email":"alice@example.com","phoneNumber":"012-3456789","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	CustomerRegister(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			CustomerID int64 `json:"customerId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CustomerID != 5 {
		t.Fatalf("expected customer id 5 got %d", envelope.Data.CustomerID)
	}
}

func TestCustomerRegisterRejectsShortPassword(t *testing.T) {
	svc := stubCustomersService{
		register: func(ctx context.Context, input customers.RegisterInput) (int64, error) {
			t.Fatal("service should not be reached")
			return 0, nil
		},
	}

	payload := `{"customerName":"alice","email":"alice@example.com","phoneNumber":"012-3456789","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	CustomerRegister(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCustomerLoginReturnsToken(t *testing.T) {
	svc := stubCustomersService{
		login: func(ctx context.Context, input customers.LoginInput) (*customers.LoginResult, error) {
			return &customers.LoginResult{Token: "jwt-token", CustomerID: 5}, nil
		},
	}

	payload := `{"customerName":"alice","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	CustomerLogin(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data customers.LoginResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "jwt-token" {
		t.Fatalf("expected token in payload got %+v", envelope.Data)
	}
}

func TestCustomerLoginBadCredentials(t *testing.T) {
	svc := stubCustomersService{
		login: func(ctx context.Context, input customers.LoginInput) (*customers.LoginResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}

	payload := `{"customerName":"alice","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	CustomerLogin(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCustomerProfileRequiresSubject(t *testing.T) {
	svc := stubCustomersService{
		profile: func(ctx context.Context, customerID int64) (*customers.ProfileDTO, error) {
			t.Fatal("service should not be reached")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me", nil)
	resp := httptest.NewRecorder()

	CustomerProfile(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCustomerProfileUsesTokenSubject(t *testing.T) {
	svc := stubCustomersService{
		profile: func(ctx context.Context, customerID int64) (*customers.ProfileDTO, error) {
			if customerID != 42 {
				t.Fatalf("expected subject 42 got %d", customerID)
			}
			return &customers.ProfileDTO{CustomerID: 42, CustomerName: "alice"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me", nil)
	req = req.WithContext(middleware.WithSubjectID(req.Context(), 42))
	resp := httptest.NewRecorder()

	CustomerProfile(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
