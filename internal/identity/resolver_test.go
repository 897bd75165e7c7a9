package identity

import (
	"testing"

	"quiz-portal/internal/domain"
)

func TestResolveWithBothMarkersConfigured(t *testing.T) {
	resolver := Resolver{AdminGroup: "Admins", UserGroup: "Users"}

	cases := []struct {
		name   string
		groups []string
		want   domain.Role
	}{
		{"empty", nil, domain.RoleNone},
		{"admin only", []string{"Admins"}, domain.RoleAdmin},
		{"user only", []string{"Users"}, domain.RoleUser},
		{"admin wins over user", []string{"Users", "Admins"}, domain.RoleAdmin},
		{"unrelated groups", []string{"Finance", "HR"}, domain.RoleNone},
		{"case sensitive", []string{"admins"}, domain.RoleNone},
		{"no substring match", []string{"AdminsAndMore"}, domain.RoleNone},
	}

	for _, tc := range cases {
		if got := resolver.Resolve(tc.groups); got != tc.want {
			t.Errorf("%s: Resolve(%v) = %v, want %v", tc.name, tc.groups, got, tc.want)
		}
	}
}

func TestResolveSimplifiedVariant(t *testing.T) {
	// With no user marker configured, any non-admin principal is a user.
	resolver := Resolver{AdminGroup: "Admins"}

	if got := resolver.Resolve([]string{"Admins"}); got != domain.RoleAdmin {
		t.Fatalf("expected admin, got %v", got)
	}
	if got := resolver.Resolve(nil); got != domain.RoleUser {
		t.Fatalf("expected user for empty group set, got %v", got)
	}
	if got := resolver.Resolve([]string{"Finance"}); got != domain.RoleUser {
		t.Fatalf("expected user for unrelated groups, got %v", got)
	}
}

func TestAmbiguous(t *testing.T) {
	resolver := Resolver{AdminGroup: "Admins", UserGroup: "Users"}

	if !resolver.Ambiguous([]string{"Admins", "Users"}) {
		t.Fatalf("expected both markers to report ambiguous")
	}
	if resolver.Ambiguous([]string{"Admins"}) {
		t.Fatalf("admin-only should not be ambiguous")
	}
	if (Resolver{AdminGroup: "Admins"}).Ambiguous([]string{"Admins"}) {
		t.Fatalf("simplified variant can never be ambiguous")
	}
}
