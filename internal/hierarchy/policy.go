package hierarchy

import (
	"fmt"
	"sort"
	"strings"
)

// Policy names accepted in configuration.
const (
	PolicyFixedFee  = "fixed-fee"
	PolicyTreeGated = "tree-gated"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor is the static admin principal.
func (a Actor) IsAdmin() bool { return a.Role == Admin }

// Target is a stored employee an operation is aimed at.
type Target struct {
	ID        string
	Role      Role
	ManagerID *string
}

// Economics describes the funds effects of creating one subordinate.
type Economics struct {
	// CreationFee is debited from the creator before the employee exists.
	CreationFee int64
	// CreatorCredit is paid into the creator's funds after creation.
	CreatorCredit int64
	// ManagerCommission and FieldManagerCommission are recorded on the
	// commission row; they do not move funds by themselves.
	ManagerCommission      int64
	FieldManagerCommission int64
}

// Fees holds the configured amounts both policies draw from.
type Fees struct {
	FieldManagerFee        int64
	HomeTeacherFee         int64
	ManagerCommission      int64
	FieldManagerCommission int64
}

func DefaultFees() Fees {
	return Fees{
		FieldManagerFee:        950,
		HomeTeacherFee:         4950,
		ManagerCommission:      50,
		FieldManagerCommission: 150,
	}
}

// Policy answers creation and funding authorization questions.
type Policy interface {
	Name() string
	CanCreate(actor, target Role) bool
	CanFund(actor Actor, target Target) bool
	Economics(creator, target Role) Economics
	// CreatableBy lists what the role may create, for error messages and UIs.
	CreatableBy(actor Role) []Role
}

// PolicyByName returns the named policy. There is no default: an empty or
// unknown name is an error.
func PolicyByName(name string, fees Fees) (Policy, error) {
	switch strings.TrimSpace(name) {
	case PolicyFixedFee:
		return NewFixedFee(fees), nil
	case PolicyTreeGated:
		return NewTreeGated(fees), nil
	case "":
		return nil, fmt.Errorf("funds policy not configured: set policy.name to %q or %q", PolicyFixedFee, PolicyTreeGated)
	}
	return nil, fmt.Errorf("unknown funds policy %q", name)
}

type roleSet map[Role]struct{}

func newRoleSet(roles ...Role) roleSet {
	s := make(roleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

func (s roleSet) has(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s roleSet) sorted() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank() < out[j].Rank() })
	return out
}

// FixedFee charges the creating manager a fixed fee per recruit and records
// commissions for the chain. Only admin moves funds directly.
type FixedFee struct {
	fees    Fees
	creates map[Role]roleSet
}

func NewFixedFee(fees Fees) *FixedFee {
	return &FixedFee{
		fees: fees,
		creates: map[Role]roleSet{
			Admin:   newRoleSet(Manager, Branch),
			Manager: newRoleSet(FieldManager, HomeTeacher),
		},
	}
}

func (p *FixedFee) Name() string { return PolicyFixedFee }

func (p *FixedFee) CanCreate(actor, target Role) bool {
	return p.creates[actor].has(target)
}

func (p *FixedFee) CreatableBy(actor Role) []Role {
	return p.creates[actor].sorted()
}

// CanFund is admin-only and unconstrained by tree position.
func (p *FixedFee) CanFund(actor Actor, _ Target) bool {
	return actor.IsAdmin()
}

func (p *FixedFee) Economics(_ Role, target Role) Economics {
	switch target {
	case FieldManager:
		return Economics{
			CreationFee:       p.fees.FieldManagerFee,
			ManagerCommission: p.fees.ManagerCommission,
		}
	case HomeTeacher:
		return Economics{
			CreationFee:            p.fees.HomeTeacherFee,
			ManagerCommission:      p.fees.ManagerCommission,
			FieldManagerCommission: p.fees.FieldManagerCommission,
		}
	}
	return Economics{}
}

// TreeGated lets each level create and fund only the level directly below it,
// and pays the creator a fixed commission per recruit.
type TreeGated struct {
	fees    Fees
	allowed map[Role]roleSet
}

func NewTreeGated(fees Fees) *TreeGated {
	return &TreeGated{
		fees: fees,
		allowed: map[Role]roleSet{
			Admin:        newRoleSet(Manager, FieldManager, HomeTeacher),
			Manager:      newRoleSet(FieldManager),
			FieldManager: newRoleSet(HomeTeacher),
			HomeTeacher:  newRoleSet(),
		},
	}
}

func (p *TreeGated) Name() string { return PolicyTreeGated }

func (p *TreeGated) CanCreate(actor, target Role) bool {
	return p.allowed[actor].has(target)
}

func (p *TreeGated) CreatableBy(actor Role) []Role {
	return p.allowed[actor].sorted()
}

// CanFund lets admin fund anyone; everyone else may fund only their own
// direct reports of the role directly below them.
func (p *TreeGated) CanFund(actor Actor, target Target) bool {
	if actor.IsAdmin() {
		return true
	}
	if !p.allowed[actor.Role].has(target.Role) {
		return false
	}
	return target.ManagerID != nil && *target.ManagerID == actor.ID
}

// Economics credits employee creators only; admin-created recruits pay nothing.
func (p *TreeGated) Economics(creator, target Role) Economics {
	if creator == Admin {
		return Economics{}
	}
	switch target {
	case FieldManager:
		return Economics{
			CreatorCredit:     p.fees.ManagerCommission,
			ManagerCommission: p.fees.ManagerCommission,
		}
	case HomeTeacher:
		return Economics{
			CreatorCredit:          p.fees.FieldManagerCommission,
			FieldManagerCommission: p.fees.FieldManagerCommission,
		}
	}
	return Economics{}
}
