package jwt

import "github.com/golang-jwt/jwt/v5"

// PortalClaims are the claims of a portal access token.
type PortalClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type Role string

const (
	RoleMember  Role = "member"
	RoleOfficer Role = "officer"
)

// Allows reports whether r grants the access of required. Officers may do
// everything members may.
func (r Role) Allows(required Role) bool {
	switch r {
	case RoleOfficer:
		return true
	case RoleMember:
		return required == RoleMember
	default:
		return false
	}
}

// ParseRole returns the role named s.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleMember, RoleOfficer:
		return r, true
	default:
		return "", false
	}
}
