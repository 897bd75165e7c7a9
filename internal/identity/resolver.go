package identity

import "quiz-portal/internal/domain"

// Resolver maps a principal's group claims to a coarse role. Marker strings
// are deployment configuration, not hard-coded logic; matching is exact and
// case-sensitive. The admin marker always wins.
type Resolver struct {
	AdminGroup string
	// UserGroup may be empty; in that simplified variant every non-admin
	// principal resolves to the user role.
	UserGroup string
}

// Resolve is pure and total: it returns exactly one of admin, user or none
// for any group set.
func (r Resolver) Resolve(groups []string) domain.Role {
	if contains(groups, r.AdminGroup) {
		return domain.RoleAdmin
	}
	if r.UserGroup == "" || contains(groups, r.UserGroup) {
		return domain.RoleUser
	}
	return domain.RoleNone
}

// Ambiguous reports whether the group set carries both markers. Resolve still
// answers admin in that case; callers that care log the conflict themselves.
func (r Resolver) Ambiguous(groups []string) bool {
	if r.AdminGroup == "" || r.UserGroup == "" {
		return false
	}
	return contains(groups, r.AdminGroup) && contains(groups, r.UserGroup)
}

func contains(groups []string, marker string) bool {
	if marker == "" {
		return false
	}
	for _, g := range groups {
		if g == marker {
			return true
		}
	}
	return false
}
