// Package authz maps portal roles to the capabilities they grant.
package authz

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Capability is a single permitted action class.
type Capability string

const (
	ServicesView    Capability = "services:view"
	ServicesOperate Capability = "services:operate"
	ServicesDelete  Capability = "services:delete"
	ServicesBulk    Capability = "services:bulk"
	PodsOperate     Capability = "pods:operate"
	AuditView       Capability = "audit:view"
	AuditClear      Capability = "audit:clear"
	RegistryReset   Capability = "registry:reset"
)

// Role is a named set of capabilities.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleUser      Role = "user"
	RoleViewer    Role = "viewer"
)

var (
	ErrUnknownRole = errors.New("unknown role")
	ErrForbidden   = errors.New("forbidden")
)

var allCapabilities = []Capability{
	ServicesView,
	ServicesOperate,
	ServicesDelete,
	ServicesBulk,
	PodsOperate,
	AuditView,
	AuditClear,
	RegistryReset,
}

// Policy resolves roles to capabilities.
type Policy struct {
	roles map[Role][]Capability
}

// DefaultPolicy returns the built-in role table.
func DefaultPolicy() *Policy {
	return &Policy{
		roles: map[Role][]Capability{
			RoleAdmin:     allCapabilities,
			RoleDeveloper: {ServicesView, ServicesOperate, PodsOperate, AuditView},
			RoleUser:      {ServicesView},
			RoleViewer:    {ServicesView},
		},
	}
}

// ParseRole normalizes a role name.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	switch role {
	case RoleAdmin, RoleDeveloper, RoleUser, RoleViewer:
		return role, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Capabilities returns the capabilities granted to role.
func (p *Policy) Capabilities(role Role) []Capability {
	return slices.Clone(p.roles[role])
}

// Allowed reports whether role grants capability.
func (p *Policy) Allowed(role Role, capability Capability) bool {
	return slices.Contains(p.roles[role], capability)
}

// Check returns ErrForbidden when role lacks capability.
func (p *Policy) Check(role Role, capability Capability) error {
	if !p.Allowed(role, capability) {
		return fmt.Errorf("%w: role %q lacks %s", ErrForbidden, role, capability)
	}

	return nil
}
