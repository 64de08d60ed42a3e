package services

import (
	"context"
	"errors"

	"edustaff-backend/internal/apperr"
	"edustaff-backend/internal/hierarchy"
	"edustaff-backend/internal/models"
	"edustaff-backend/internal/repositories"
)

// DirectoryService answers read-only questions about the employee tree.
type DirectoryService struct {
	Repo        EmployeeStore
	Commissions CommissionStore
}

func NewDirectoryService(repo EmployeeStore, commissions CommissionStore) *DirectoryService {
	return &DirectoryService{Repo: repo, Commissions: commissions}
}

// VisibleEmployees is the list-visible-employees payload.
type VisibleEmployees struct {
	Status    string             `json:"status"`
	Message   string             `json:"message,omitempty"`
	Employees []*models.Employee `json:"employees,omitempty"`
}

func (s *DirectoryService) load(ctx context.Context, id string) (*models.Employee, error) {
	e, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFoundf("employee %s not found", id)
		}
		return nil, apperr.Storage(err, "load employee")
	}
	return e, nil
}

// canView reports whether actor may read target: admin and branch see all,
// everyone sees themselves, and supervisors see two levels down.
func (s *DirectoryService) canView(ctx context.Context, actor hierarchy.Actor, target *models.Employee) (bool, error) {
	if actor.Role.SeesEverything() || actor.ID == target.ID {
		return true, nil
	}
	if target.ManagerID == nil {
		return false, nil
	}
	if *target.ManagerID == actor.ID {
		return true, nil
	}
	if actor.Role != hierarchy.Manager {
		return false, nil
	}
	parent, err := s.Repo.Get(ctx, *target.ManagerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, apperr.Storage(err, "load supervisor")
	}
	return parent.ManagerID != nil && *parent.ManagerID == actor.ID, nil
}

// Profile returns one employee with their supervisor's name.
func (s *DirectoryService) Profile(ctx context.Context, actor hierarchy.Actor, id string) (*models.EmployeeProfile, error) {
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.canView(ctx, actor, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbiddenf("employee %s is outside your team", id)
	}

	profile := &models.EmployeeProfile{Employee: *target}
	if target.ManagerID != nil {
		if mgr, err := s.Repo.Get(ctx, *target.ManagerID); err == nil {
			profile.ManagerName = mgr.Name
		}
	}
	return profile, nil
}

// Visible lists the employees actor may see. Home-teachers have no team.
func (s *DirectoryService) Visible(ctx context.Context, actor hierarchy.Actor) (*VisibleEmployees, error) {
	var (
		list []*models.Employee
		err  error
	)
	switch actor.Role {
	case hierarchy.Admin, hierarchy.Branch:
		list, err = s.Repo.ListAll(ctx)
	case hierarchy.Manager:
		list, err = s.Repo.ListTwoLevels(ctx, actor.ID)
	case hierarchy.FieldManager:
		list, err = s.Repo.ListDirectReports(ctx, actor.ID, hierarchy.HomeTeacher)
	default:
		return &VisibleEmployees{Status: models.StatusBad, Message: "no employees are visible to this role"}, nil
	}
	if err != nil {
		return nil, apperr.Storage(err, "list employees")
	}
	if list == nil {
		list = []*models.Employee{}
	}
	return &VisibleEmployees{Status: models.StatusGood, Employees: list}, nil
}

// Tree assembles the whole hierarchy from one listing. Employees whose
// supervisor is missing become roots.
func (s *DirectoryService) Tree(ctx context.Context) ([]*models.EmployeeNode, error) {
	all, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "list employees")
	}
	return BuildTree(all), nil
}

// BuildTree nests employees under their manager_id, keeping input order
// among siblings.
func BuildTree(all []*models.Employee) []*models.EmployeeNode {
	nodes := make(map[string]*models.EmployeeNode, len(all))
	for _, e := range all {
		nodes[e.ID] = &models.EmployeeNode{
			ID:        e.ID,
			Name:      e.Name,
			Role:      e.Role,
			Email:     e.Email,
			Phone:     e.Phone,
			Funds:     e.Funds,
			CreatedAt: e.CreatedAt,
		}
	}

	roots := []*models.EmployeeNode{}
	for _, e := range all {
		node := nodes[e.ID]
		if e.ManagerID != nil {
			if parent, ok := nodes[*e.ManagerID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

func (s *DirectoryService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	stats, err := s.Repo.Stats(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "dashboard stats")
	}
	return stats, nil
}

// ManagerTeam lists a manager's field-managers and the manager's lifetime
// commission total.
func (s *DirectoryService) ManagerTeam(ctx context.Context, actor hierarchy.Actor, managerID string) (*models.ManagerTeam, error) {
	if !actor.Role.SeesEverything() && actor.ID != managerID {
		return nil, apperr.Forbiddenf("team of %s is not visible to you", managerID)
	}
	mgr, err := s.load(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if mgr.Role != hierarchy.Manager {
		return nil, apperr.Validationf("%s is not a manager", managerID)
	}

	fms, err := s.Repo.FieldManagerSummaries(ctx, managerID)
	if err != nil {
		return nil, apperr.Storage(err, "list field-managers")
	}
	total, err := s.Commissions.TotalForManager(ctx, managerID)
	if err != nil {
		return nil, apperr.Storage(err, "total commission")
	}
	return &models.ManagerTeam{ManagerID: managerID, FieldManagers: fms, TotalCommission: total}, nil
}

// FieldManagerTeam lists a field-manager's home-teachers.
func (s *DirectoryService) FieldManagerTeam(ctx context.Context, actor hierarchy.Actor, fmID string) (*models.FieldManagerTeam, error) {
	fm, err := s.load(ctx, fmID)
	if err != nil {
		return nil, err
	}
	if fm.Role != hierarchy.FieldManager {
		return nil, apperr.Validationf("%s is not a field-manager", fmID)
	}
	ok, err := s.canView(ctx, actor, fm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Forbiddenf("team of %s is not visible to you", fmID)
	}

	hts, err := s.Repo.ListDirectReports(ctx, fmID, hierarchy.HomeTeacher)
	if err != nil {
		return nil, apperr.Storage(err, "list home-teachers")
	}
	if hts == nil {
		hts = []*models.Employee{}
	}
	return &models.FieldManagerTeam{FieldManagerID: fmID, HomeTeachers: hts}, nil
}
