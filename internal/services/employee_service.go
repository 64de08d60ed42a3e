package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/auth"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/metrics"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
	"edustaff-backend/internal/timeutil"

	"go.uber.org/zap"
)

// createAttempts bounds id generation: one retry after a primary key clash.
const createAttempts = 2

// EmployeeService is the creation and commission engine.
type EmployeeService struct {
	Repo   EmployeeStore
	Policy hierarchy.Policy

	logger *zap.Logger
	now    func() time.Time
	newID  func(hierarchy.Role) (string, error)
	hash   func(string) (string, error)
}

func NewEmployeeService(repo EmployeeStore, policy hierarchy.Policy, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		Repo:   repo,
		Policy: policy,
		logger: logger.With(zap.String("component", "employees")),
		now:    timeutil.Now,
		newID:  hierarchy.NewEmployeeID,
		hash:   auth.HashPassword,
	}
}

// Create authorizes and performs one create-subordinate operation. An
// expected business refusal (insufficient funds) comes back as a result
// with status "bad" and a nil error.
func (s *EmployeeService) Create(ctx context.Context, actor hierarchy.Actor, req *models.CreateEmployeeRequest) (*models.CreateEmployeeResult, error) {
	role, ok := hierarchy.ParseEmployeeRole(req.Role)
	if !ok {
		return nil, apperr.Validationf("unknown role %q", req.Role)
	}
	if !s.Policy.CanCreate(actor.Role, role) {
		s.countCreation(role, "forbidden")
		return nil, apperr.Forbiddenf("%s may not create %s", actor.Role, role)
	}

	emp, err := s.buildEmployee(req, role)
	if err != nil {
		return nil, err
	}

	parent, err := s.resolveParent(ctx, actor, role, req.ManagerID)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		emp.ManagerID = &parent.ID
	}

	econ := s.Policy.Economics(actor.Role, role)
	creation := &models.EmployeeCreation{
		Employee:   emp,
		CreatorID:  actor.ID,
		Debit:      econ.CreationFee,
		Credit:     econ.CreatorCredit,
		Commission: s.commissionFor(actor, role, parent, econ),
	}

	for attempt := 1; ; attempt++ {
		id, err := s.newID(role)
		if err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "generate employee id")
		}
		emp.ID = id

		err = s.Repo.Create(ctx, creation)
		switch {
		case err == nil:
			s.countCreation(role, "created")
			s.logger.Info("employee created",
				zap.String("employee_id", emp.ID),
				zap.String("role", string(role)),
				zap.String("creator_id", actor.ID),
				zap.Int64("fee", econ.CreationFee),
				zap.Int64("creator_credit", econ.CreatorCredit),
			)
			return &models.CreateEmployeeResult{Status: models.StatusGood, EmployeeID: emp.ID}, nil

		case errors.Is(err, repositories.ErrDuplicateID) && attempt < createAttempts:
			s.logger.Warn("employee id collision, retrying", zap.String("employee_id", id))
			continue

		case errors.Is(err, repositories.ErrDuplicateID):
			s.countCreation(role, "conflict")
			return nil, apperr.Wrap(apperr.Conflict, err, "could not allocate a unique employee id")

		case errors.Is(err, repositories.ErrDuplicateContact):
			s.countCreation(role, "conflict")
			return nil, apperr.Conflictf("email or phone already registered")

		case errors.Is(err, repositories.ErrInsufficientFunds):
			s.countCreation(role, "insufficient_funds")
			return &models.CreateEmployeeResult{Status: models.StatusBad, Message: "Insufficient funds"}, nil

		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperr.NotFoundf("creator %s not found", actor.ID)

		default:
			s.countCreation(role, "error")
			s.logger.Error("create employee failed", zap.String("role", string(role)), zap.Error(err))
			return nil, apperr.Storage(err, "create employee")
		}
	}
}

func (s *EmployeeService) buildEmployee(req *models.CreateEmployeeRequest, role hierarchy.Role) (*models.Employee, error) {
	if err := required("name", req.Name); err != nil {
		return nil, err
	}
	if err := required("fname", req.FName); err != nil {
		return nil, err
	}
	if err := required("mname", req.MName); err != nil {
		return nil, err
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validatePhone(req.Phone); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validationf("pwd must be at least %d characters", minPasswordLength)
	}
	now := s.now()
	dob, err := parseDOB(req.DOB, now)
	if err != nil {
		return nil, err
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "hash password")
	}

	return &models.Employee{
		Role:         role,
		Name:         strings.TrimSpace(req.Name),
		FatherName:   strings.TrimSpace(req.FName),
		MotherName:   strings.TrimSpace(req.MName),
		DOB:          dob,
		Address:      strings.TrimSpace(req.Addr),
		City:         strings.TrimSpace(req.City),
		District:     strings.TrimSpace(req.District),
		State:        strings.TrimSpace(req.State),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		CreatedAt:    now,
	}, nil
}

// parentRole is the role a new employee of role reports to, if any.
func parentRole(role hierarchy.Role) (hierarchy.Role, bool) {
	switch role {
	case hierarchy.FieldManager:
		return hierarchy.Manager, true
	case hierarchy.HomeTeacher:
		return hierarchy.FieldManager, true
	}
	return "", false
}

// resolveParent finds the supervisor of a new employee. A creator of the
// parent role is the parent; otherwise the request must name one, except
// for admin where it is optional.
func (s *EmployeeService) resolveParent(ctx context.Context, actor hierarchy.Actor, role hierarchy.Role, supplied *string) (*models.Employee, error) {
	want, ok := parentRole(role)
	if !ok {
		return nil, nil
	}

	if actor.Role == want {
		parent, err := s.Repo.Get(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperr.NotFoundf("creator %s not found", actor.ID)
			}
			return nil, apperr.Storage(err, "load creator")
		}
		return parent, nil
	}

	if supplied == nil || strings.TrimSpace(*supplied) == "" {
		if actor.IsAdmin() {
			return nil, nil
		}
		return nil, apperr.Validationf("manager_id of the supervising %s is required", want)
	}

	parent, err := s.Repo.Get(ctx, strings.TrimSpace(*supplied))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFoundf("supervisor %s not found", *supplied)
		}
		return nil, apperr.Storage(err, "load supervisor")
	}
	if parent.Role != want {
		return nil, apperr.Validationf("supervisor %s is a %s, expected %s", parent.ID, parent.Role, want)
	}
	return parent, nil
}

// commissionFor builds the commission row for field-manager and home-teacher
// creations that carry any commission. The manager on the row is the
// creating manager, or the parent's own manager when someone else created.
func (s *EmployeeService) commissionFor(actor hierarchy.Actor, role hierarchy.Role, parent *models.Employee, econ hierarchy.Economics) *models.Commission {
	if econ.ManagerCommission == 0 && econ.FieldManagerCommission == 0 {
		return nil
	}

	c := &models.Commission{
		ManagerCommission: econ.ManagerCommission,
		CreatedRole:       role,
		RegisteredAt:      s.now(),
	}

	switch {
	case actor.Role == hierarchy.Manager:
		id := actor.ID
		c.ManagerID = &id
	case role == hierarchy.FieldManager && parent != nil:
		c.ManagerID = &parent.ID
	case role == hierarchy.HomeTeacher && parent != nil:
		c.ManagerID = parent.ManagerID
	}

	if role == hierarchy.HomeTeacher {
		if parent != nil {
			c.FieldManagerID = &parent.ID
		}
		fmc := econ.FieldManagerCommission
		c.FieldManagerCommission = &fmc
	}
	return c
}

func (s *EmployeeService) countCreation(role hierarchy.Role, outcome string) {
	metrics.EmployeesCreatedTotal.WithLabelValues(string(role), s.Policy.Name(), outcome).Inc()
}
