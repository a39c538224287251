package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskvest/internal/auth"
	"taskvest/internal/services"
	"taskvest/internal/store"
)

func TestRegisterRejectsBadPhone(t *testing.T) {
	handler := New(Deps{Config: testConfig(), UserSvc: stubUserService{}})
	body := strings.NewReader(`{"phone":"nope","password":"longenough","full_name":"Test User"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegisterReturnsTokenAndCode(t *testing.T) {
	handler := New(Deps{Config: testConfig(), UserSvc: stubUserService{
		registerFn: func(_ context.Context, input services.RegisterInput) (services.RegisterResult, error) {
			if input.Phone != "+12025550123" {
				t.Fatalf("unexpected phone: %s", input.Phone)
			}
			if input.PasswordHash == "longenough" {
				t.Fatal("password must be hashed before the service sees it")
			}
			return services.RegisterResult{UserID: "user-1", ReferralCode: "REFABC234"}, nil
		},
	}})
	body := strings.NewReader(`{"phone":"+12025550123","password":"longenough","full_name":"Test User"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["referral_code"] != "REFABC234" {
		t.Fatalf("unexpected referral code: %s", payload["referral_code"])
	}
	claims, err := auth.ParseToken("secret", payload["token"])
	if err != nil || claims.UserID != "user-1" {
		t.Fatalf("expected a valid token for user-1, got %v", err)
	}
}

func TestRegisterMapsPhoneConflict(t *testing.T) {
	handler := New(Deps{Config: testConfig(), UserSvc: stubUserService{
		registerFn: func(context.Context, services.RegisterInput) (services.RegisterResult, error) {
			return services.RegisterResult{}, services.ErrPhoneTaken
		},
	}})
	body := strings.NewReader(`{"phone":"+12025550123","password":"longenough","full_name":"Test User"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
	rr := httptest.NewRecorder()
	handler.Register(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("rightpassword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	handler := New(Deps{Config: testConfig(), Users: stubUserStore{
		getByPhoneFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "user-1", PasswordHash: hash}, nil
		},
	}})
	body := strings.NewReader(`{"phone":"+12025550123","password":"wrongpassword"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("rightpassword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	handler := New(Deps{Config: testConfig(), Users: stubUserStore{
		getByPhoneFn: func(context.Context, string) (store.User, error) {
			return store.User{ID: "user-1", PasswordHash: hash}, nil
		},
	}})
	body := strings.NewReader(`{"phone":"+12025550123","password":"rightpassword"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	rr := httptest.NewRecorder()
	handler.Login(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	claims, err := auth.ParseToken("secret", payload["token"])
	if err != nil || claims.UserID != "user-1" {
		t.Fatalf("expected a valid token for user-1, got %v", err)
	}
}
