package services

import (
	"context"
	"testing"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/auth"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

const testSecret = "test-secret-for-auth-service"

func newAuthFixture(t *testing.T, totpSecret string) (*AuthService, *memDB) {
	t.Helper()
	hash, err := auth.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	db := newMemDB()
	db.add(&models.Employee{ID: "M-login00", Role: hierarchy.Manager, Name: "Login Manager", Email: "mgr@example.com", Phone: "9000000009", PasswordHash: hash})

	jwtManager := auth.NewJWTManager(testSecret, 24, "edustaff")
	creds := auth.AdminCredentials{Username: "admin", Password: "s3cret"}
	return NewAuthService(db, jwtManager, creds, totpSecret, zap.NewNop()), db
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newAuthFixture(t, "")

	res, err := svc.AdminLogin(context.Background(), &models.AdminLoginRequest{Username: "admin", Password: "s3cret"})
	if err != nil || res.Status != models.StatusGood || res.Token == "" {
		t.Fatalf("AdminLogin = %+v, %v", res, err)
	}
	actor, err := svc.Authenticate(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if actor != (hierarchy.Actor{ID: hierarchy.AdminID, Role: hierarchy.Admin}) {
		t.Errorf("actor = %+v", actor)
	}

	res, err = svc.AdminLogin(context.Background(), &models.AdminLoginRequest{Username: "admin", Password: "wrong"})
	if err != nil || res.Status != models.StatusBad || res.Message != "invalid-credentials" || res.Token != "" {
		t.Errorf("bad password = %+v, %v", res, err)
	}
}

func TestAdminLoginWithTOTP(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"
	svc, _ := newAuthFixture(t, secret)

	res, err := svc.AdminLogin(context.Background(), &models.AdminLoginRequest{Username: "admin", Password: "s3cret"})
	if err != nil || res.Status != models.StatusBad {
		t.Errorf("missing otp = %+v, %v", res, err)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("GenerateCode: %v", err)
	}
	res, err = svc.AdminLogin(context.Background(), &models.AdminLoginRequest{Username: "admin", Password: "s3cret", OTP: code})
	if err != nil || res.Status != models.StatusGood {
		t.Errorf("valid otp = %+v, %v", res, err)
	}
}

func TestEmployeeLogin(t *testing.T) {
	svc, _ := newAuthFixture(t, "")

	tests := []struct {
		name string
		req  models.LoginRequest
		want string
	}{
		{"ok", models.LoginRequest{Email: "mgr@example.com", Password: "secret123", Role: "manager"}, models.StatusGood},
		{"wrong password", models.LoginRequest{Email: "mgr@example.com", Password: "nope", Role: "manager"}, models.StatusBad},
		{"wrong role", models.LoginRequest{Email: "mgr@example.com", Password: "secret123", Role: "field-manager"}, models.StatusBad},
		{"unknown email", models.LoginRequest{Email: "who@example.com", Password: "secret123", Role: "manager"}, models.StatusBad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.EmployeeLogin(context.Background(), &tt.req)
			if err != nil {
				t.Fatalf("EmployeeLogin: %v", err)
			}
			if res.Status != tt.want {
				t.Errorf("status = %s, want %s", res.Status, tt.want)
			}
			if tt.want == models.StatusGood && (res.Token == "" || res.EmpID != "M-login00") {
				t.Errorf("result = %+v", res)
			}
		})
	}

	for _, role := range []string{"admin", "teacher", ""} {
		_, err := svc.EmployeeLogin(context.Background(), &models.LoginRequest{Email: "mgr@example.com", Password: "secret123", Role: role})
		if apperr.KindOf(err) != apperr.Validation {
			t.Errorf("role %q: err = %v, want validation", role, err)
		}
	}
}

func TestAuthenticateRechecksStoredRole(t *testing.T) {
	svc, db := newAuthFixture(t, "")

	token, err := svc.JWT.GenerateToken(hierarchy.Manager, "M-login00")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	actor, err := svc.Authenticate(context.Background(), token)
	if err != nil || actor.Role != hierarchy.Manager {
		t.Fatalf("Authenticate = %+v, %v", actor, err)
	}

	db.employees["M-login00"].Role = hierarchy.Branch
	if _, err := svc.Authenticate(context.Background(), token); apperr.KindOf(err) != apperr.Unauthenticated {
		t.Errorf("role changed: err = %v, want unauthenticated", err)
	}

	ghost, _ := svc.JWT.GenerateToken(hierarchy.Manager, "M-ghost000")
	if _, err := svc.Authenticate(context.Background(), ghost); apperr.KindOf(err) != apperr.Unauthenticated {
		t.Errorf("unknown employee: err = %v, want unauthenticated", err)
	}

	fakeAdmin, _ := svc.JWT.GenerateToken(hierarchy.Admin, "M-login00")
	if _, err := svc.Authenticate(context.Background(), fakeAdmin); apperr.KindOf(err) != apperr.Unauthenticated {
		t.Errorf("admin role on employee id: err = %v, want unauthenticated", err)
	}
}

func TestAuthenticateTokenErrors(t *testing.T) {
	svc, _ := newAuthFixture(t, "")

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); apperr.KindOf(err) != apperr.Unauthenticated {
		t.Errorf("garbage: err = %v, want unauthenticated", err)
	}

	other := auth.NewJWTManager("another-secret", 24, "edustaff")
	forged, _ := other.GenerateToken(hierarchy.Manager, "M-login00")
	if _, err := svc.Authenticate(context.Background(), forged); apperr.KindOf(err) != apperr.Unauthenticated {
		t.Errorf("wrong key: err = %v, want unauthenticated", err)
	}

	stale := auth.NewJWTManager(testSecret, -1, "edustaff")
	expired, _ := stale.GenerateToken(hierarchy.Manager, "M-login00")
	if _, err := svc.Authenticate(context.Background(), expired); apperr.KindOf(err) != apperr.Expired {
		t.Errorf("expired: err = %v, want expired", err)
	}
}
