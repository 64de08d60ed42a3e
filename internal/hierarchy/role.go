// Package hierarchy encodes the employee role tree: which role may create
// which subordinate, who may fund whom, and what each creation costs or pays.
package hierarchy

// Role is an actor role. Admin is the only role with no employee row.
type Role string

const (
	Admin        Role = "admin"
	Branch       Role = "branch"
	Manager      Role = "manager"
	FieldManager Role = "field-manager"
	HomeTeacher  Role = "home-teacher"
)

// AdminID is the employee id carried in tokens issued to the admin principal.
const AdminID = "admin"

// EmployeeRoles are the roles stored in the employees table.
var EmployeeRoles = []Role{Branch, Manager, FieldManager, HomeTeacher}

// ParseRole accepts any known role, including admin.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case Admin, Branch, Manager, FieldManager, HomeTeacher:
		return r, true
	}
	return "", false
}

// ParseEmployeeRole accepts only roles that have an employee row.
func ParseEmployeeRole(s string) (Role, bool) {
	r, ok := ParseRole(s)
	if !ok || r == Admin {
		return "", false
	}
	return r, true
}

func (r Role) String() string { return string(r) }

// IsEmployee reports whether the role is backed by an employee row.
func (r Role) IsEmployee() bool {
	switch r {
	case Branch, Manager, FieldManager, HomeTeacher:
		return true
	}
	return false
}

// SeesEverything reports whether the role reads the whole organisation.
func (r Role) SeesEverything() bool {
	return r == Admin || r == Branch
}

// Rank orders roles top-down for listings.
func (r Role) Rank() int {
	switch r {
	case Admin:
		return 0
	case Branch:
		return 1
	case Manager:
		return 2
	case FieldManager:
		return 3
	case HomeTeacher:
		return 4
	}
	return 5
}
