package model

import (
	"sort"
	"testing"
)

// ============================================================================
// ValidRole Tests
// ============================================================================

func TestValidRole_KnownRoles(t *testing.T) {
	t.Parallel()

	for _, role := range []string{"tank", "healer", "dps", "flex"} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be a valid role", role)
		}
	}
}

func TestValidRole_RejectsUnknown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		role string
	}{
		{"empty", ""},
		{"uppercase", "Tank"},
		{"misspelled", "healz"},
		{"whitespace", " dps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if ValidRole(tt.role) {
				t.Errorf("expected %q to be rejected", tt.role)
			}
		})
	}
}

// ============================================================================
// RoleRank Tests
// ============================================================================

func TestRoleRank_OrdersTanksFirst(t *testing.T) {
	t.Parallel()

	roles := []CharacterRole{RoleFlex, RoleDPS, RoleTank, RoleHealer}
	sort.Slice(roles, func(i, j int) bool {
		return RoleRank(roles[i]) < RoleRank(roles[j])
	})

	want := []CharacterRole{RoleTank, RoleHealer, RoleDPS, RoleFlex}
	for i, role := range want {
		if roles[i] != role {
			t.Errorf("position %d: expected %q, got %q", i, role, roles[i])
		}
	}
}

func TestRoleRank_UnknownSortsLast(t *testing.T) {
	t.Parallel()

	unknown := RoleRank(CharacterRole("bard"))
	for _, role := range []CharacterRole{RoleTank, RoleHealer, RoleDPS, RoleFlex} {
		if RoleRank(role) >= unknown {
			t.Errorf("expected %q to rank before unknown roles", role)
		}
	}
}
