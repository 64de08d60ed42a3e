package services

import (
	"context"
	"errors"
	"strings"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/auth"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/metrics"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

const invalidCredentials = "invalid-credentials"

// AuthService issues tokens for the admin principal and employees and
// resolves tokens back into actors.
type AuthService struct {
	Employees  EmployeeStore
	JWT        *auth.JWTManager
	Admin      auth.AdminCredentials
	TOTPSecret string // optional second factor for admin

	logger *zap.Logger
}

func NewAuthService(employees EmployeeStore, jwtManager *auth.JWTManager, admin auth.AdminCredentials, totpSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		Employees:  employees,
		JWT:        jwtManager,
		Admin:      admin,
		TOTPSecret: totpSecret,
		logger:     logger.With(zap.String("component", "auth")),
	}
}

func badLogin(kind string) *models.AuthResponse {
	metrics.LoginAttemptsTotal.WithLabelValues(kind, "rejected").Inc()
	return &models.AuthResponse{Status: models.StatusBad, Message: invalidCredentials}
}

// AdminLogin checks the static admin credentials and, when configured, a
// TOTP code.
func (s *AuthService) AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (*models.AuthResponse, error) {
	if !s.Admin.Verify(strings.TrimSpace(req.Username), req.Password) {
		s.logger.Warn("admin login rejected", zap.String("username", req.Username))
		return badLogin("admin"), nil
	}
	if s.TOTPSecret != "" && !totp.Validate(strings.TrimSpace(req.OTP), s.TOTPSecret) {
		s.logger.Warn("admin login rejected: bad otp")
		return badLogin("admin"), nil
	}

	token, err := s.JWT.GenerateToken(hierarchy.Admin, hierarchy.AdminID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "issue token")
	}
	metrics.LoginAttemptsTotal.WithLabelValues("admin", "ok").Inc()
	return &models.AuthResponse{
		Status: models.StatusGood,
		Token:  token,
		Role:   string(hierarchy.Admin),
		EmpID:  hierarchy.AdminID,
	}, nil
}

// EmployeeLogin matches email, password and the claimed role against the
// stored employee.
func (s *AuthService) EmployeeLogin(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	role, ok := hierarchy.ParseEmployeeRole(req.Role)
	if !ok {
		return nil, apperr.Validationf("role must be one of branch, manager, field-manager, home-teacher")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apperr.Validationf("email and pwd are required")
	}

	emp, err := s.Employees.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return badLogin("employee"), nil
		}
		return nil, apperr.Storage(err, "load employee")
	}
	if emp.Role != role || !auth.VerifyPassword(emp.PasswordHash, req.Password) {
		return badLogin("employee"), nil
	}

	token, err := s.JWT.GenerateToken(emp.Role, emp.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "issue token")
	}
	metrics.LoginAttemptsTotal.WithLabelValues("employee", "ok").Inc()
	s.logger.Info("employee logged in", zap.String("employee_id", emp.ID), zap.String("role", string(emp.Role)))
	return &models.AuthResponse{
		Status: models.StatusGood,
		Token:  token,
		Role:   string(emp.Role),
		EmpID:  emp.ID,
	}, nil
}

// Authenticate validates a bearer token. Employee tokens are re-checked
// against the stored row so a changed role or removed employee loses access.
func (s *AuthService) Authenticate(ctx context.Context, token string) (hierarchy.Actor, error) {
	claims, err := s.JWT.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return hierarchy.Actor{}, apperr.New(apperr.Expired, "token expired")
		}
		return hierarchy.Actor{}, apperr.New(apperr.Unauthenticated, "invalid token")
	}

	if claims.Role == hierarchy.Admin {
		if claims.EmpID != hierarchy.AdminID {
			return hierarchy.Actor{}, apperr.New(apperr.Unauthenticated, "invalid token")
		}
		return hierarchy.Actor{ID: hierarchy.AdminID, Role: hierarchy.Admin}, nil
	}

	emp, err := s.Employees.Get(ctx, claims.EmpID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return hierarchy.Actor{}, apperr.New(apperr.Unauthenticated, "unknown employee")
		}
		return hierarchy.Actor{}, apperr.Storage(err, "load employee")
	}
	if emp.Role != claims.Role {
		return hierarchy.Actor{}, apperr.New(apperr.Unauthenticated, "role mismatch")
	}
	return hierarchy.Actor{ID: emp.ID, Role: emp.Role}, nil
}
