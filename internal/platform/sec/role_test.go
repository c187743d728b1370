// Copyright (c) 2026 ContactFlow. All rights reserved.

package sec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestRolePredicates verifies the derived capability flags across the whole
role lattice, including unknown and empty tags.
*/
func TestRolePredicates(t *testing.T) {
	tests := []struct {
		name          string
		role          UserRole
		valid         bool
		canView       bool
		canEdit       bool
		canAdminister bool
	}{
		{"admin", RoleAdmin, true, true, true, true},
		{"edit", RoleEdit, true, true, true, false},
		{"view", RoleView, true, true, false, false},
		{"empty tag", UserRole(""), false, false, false, false},
		{"unknown tag", UserRole("Owner"), false, false, false, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.valid, test.role.IsValid())
			assert.Equal(t, test.canView, test.role.CanView())
			assert.Equal(t, test.canEdit, test.role.CanEdit())
			assert.Equal(t, test.canAdminister, test.role.CanAdminister())
		})
	}
}

/*
TestAtLeastIsTotalOverKnownRoles verifies the ordering View < Edit < Admin
and that unknown roles rank below every known role.
*/
func TestAtLeastIsTotalOverKnownRoles(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleEdit))
	assert.True(t, RoleAdmin.AtLeast(RoleView))

	assert.False(t, RoleEdit.AtLeast(RoleAdmin))
	assert.True(t, RoleEdit.AtLeast(RoleEdit))
	assert.True(t, RoleEdit.AtLeast(RoleView))

	assert.False(t, RoleView.AtLeast(RoleAdmin))
	assert.False(t, RoleView.AtLeast(RoleEdit))
	assert.True(t, RoleView.AtLeast(RoleView))

	assert.False(t, UserRole("").AtLeast(RoleView))
}
