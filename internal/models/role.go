package models

import "fmt"

// Role is the account_type column. The set is closed; anything else is rejected.
type Role string

const (
	RoleStandard Role = "Client"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStandard, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role may administer inventory and classifications.
func (r Role) Elevated() bool {
	switch r {
	case RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return r, nil
}
