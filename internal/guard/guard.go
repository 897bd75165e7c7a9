// Package guard decides whether a protected route may render for the current
// auth state. It produces decisions only; applying them (redirects, loading
// responses) is the transport layer's job.
package guard

import (
	"quiz-portal/internal/domain"
	"quiz-portal/internal/identity"
)

// DecisionKind enumerates the three possible guard outcomes.
type DecisionKind int

const (
	Allow DecisionKind = iota
	Redirect
	ShowLoading
)

// Decision is the guard's verdict for one navigation. Location is only set
// for redirects.
type Decision struct {
	Kind     DecisionKind
	Location string
}

// Guard evaluates role requirements against auth state. It must be consulted
// on every navigation; auth state changes asynchronously (token refresh,
// sign-out) so decisions are never cached.
type Guard struct {
	Resolver  identity.Resolver
	LoginPath string
	UserHome  string
	AdminHome string
}

func New(resolver identity.Resolver) *Guard {
	return &Guard{
		Resolver:  resolver,
		LoginPath: "/login",
		UserHome:  "/user",
		AdminHome: "/admin",
	}
}

// Authorize implements the route-gating table:
//
//	loading            -> ShowLoading
//	not authenticated  -> redirect to login
//	no required role   -> allow
//	admin required, non-admin -> redirect to user home
//	user required, admin      -> redirect to admin home
//	otherwise                 -> allow
func (g *Guard) Authorize(state identity.AuthState, required domain.Role) Decision {
	if state.Status == domain.AuthLoading {
		return Decision{Kind: ShowLoading}
	}
	if state.Status != domain.AuthAuthenticated {
		return Decision{Kind: Redirect, Location: g.LoginPath}
	}
	if required == domain.RoleNone {
		return Decision{Kind: Allow}
	}

	var groups []string
	if state.Principal != nil {
		groups = state.Principal.Groups
	}
	role := g.Resolver.Resolve(groups)

	if required == domain.RoleAdmin && role != domain.RoleAdmin {
		return Decision{Kind: Redirect, Location: g.UserHome}
	}
	if required == domain.RoleUser && role == domain.RoleAdmin {
		return Decision{Kind: Redirect, Location: g.AdminHome}
	}
	return Decision{Kind: Allow}
}
