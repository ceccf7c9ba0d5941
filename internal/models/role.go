package models

import "strings"

// Role classifies users for visibility and catalog permissions.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleAgent   Role = "AGENT"
	RoleUnknown Role = ""
)

// ParseRole maps a caller-supplied role string to a typed role. Unknown
// values fall through to RoleUnknown, which behaves like an unscoped caller.
func ParseRole(raw string) Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ADMIN":
		return RoleAdmin
	case "USER":
		return RoleUser
	case "AGENT":
		return RoleAgent
	default:
		return RoleUnknown
	}
}

// CanManageCatalog reports whether the role may create or modify
// universities and programs. Only agents are restricted.
func (r Role) CanManageCatalog() bool {
	return r != RoleAgent
}

// ScopedToOwn reports whether listings must be restricted to records the
// caller owns.
func (r Role) ScopedToOwn() bool {
	return r == RoleAgent
}
