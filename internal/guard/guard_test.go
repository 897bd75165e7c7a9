package guard

import (
	"testing"

	"quiz-portal/internal/domain"
	"quiz-portal/internal/identity"
)

func testGuard() *Guard {
	return New(identity.Resolver{AdminGroup: "Admins"})
}

func stateWith(status domain.AuthStatus, groups ...string) identity.AuthState {
	state := identity.AuthState{Status: status}
	if status == domain.AuthAuthenticated {
		state.Principal = &domain.Principal{Subject: "u1", Groups: groups, Token: "tok"}
	}
	return state
}

func TestAuthorizeTable(t *testing.T) {
	g := testGuard()

	cases := []struct {
		name     string
		state    identity.AuthState
		required domain.Role
		want     Decision
	}{
		{
			"unauthenticated redirects to login regardless of requirement",
			stateWith(domain.AuthUnauthenticated), domain.RoleAdmin,
			Decision{Kind: Redirect, Location: "/login"},
		},
		{
			"error state also redirects to login",
			stateWith(domain.AuthError), domain.RoleNone,
			Decision{Kind: Redirect, Location: "/login"},
		},
		{
			"loading shows loading regardless of requirement",
			stateWith(domain.AuthLoading), domain.RoleUser,
			Decision{Kind: ShowLoading},
		},
		{
			"authenticated with no required role allows",
			stateWith(domain.AuthAuthenticated), domain.RoleNone,
			Decision{Kind: Allow},
		},
		{
			"admin required and admin present allows",
			stateWith(domain.AuthAuthenticated, "Admins"), domain.RoleAdmin,
			Decision{Kind: Allow},
		},
		{
			"admin required and non-admin redirects to user home",
			stateWith(domain.AuthAuthenticated), domain.RoleAdmin,
			Decision{Kind: Redirect, Location: "/user"},
		},
		{
			"user required and admin redirects to admin home",
			stateWith(domain.AuthAuthenticated, "Admins"), domain.RoleUser,
			Decision{Kind: Redirect, Location: "/admin"},
		},
		{
			"user required and plain user allows",
			stateWith(domain.AuthAuthenticated), domain.RoleUser,
			Decision{Kind: Allow},
		},
	}

	for _, tc := range cases {
		got := g.Authorize(tc.state, tc.required)
		if got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestAuthorizeIsNotCached(t *testing.T) {
	// The same guard must answer differently as auth state changes between
	// navigations.
	g := testGuard()

	if d := g.Authorize(stateWith(domain.AuthUnauthenticated), domain.RoleUser); d.Kind != Redirect {
		t.Fatalf("expected redirect before sign-in, got %+v", d)
	}
	if d := g.Authorize(stateWith(domain.AuthAuthenticated), domain.RoleUser); d.Kind != Allow {
		t.Fatalf("expected allow after sign-in, got %+v", d)
	}
	if d := g.Authorize(stateWith(domain.AuthUnauthenticated), domain.RoleUser); d.Kind != Redirect {
		t.Fatalf("expected redirect after sign-out, got %+v", d)
	}
}
