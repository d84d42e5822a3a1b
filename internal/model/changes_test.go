package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserChanges_SetDoc(t *testing.T) {
	name := "Ada Lovelace"
	role := RoleAdmin

	set := UserChanges{Name: &name, Role: &role}.SetDoc()

	assert.Equal(t, "Ada Lovelace", set["name"])
	assert.Equal(t, RoleAdmin, set["role"])
	assert.Contains(t, set, "updatedAt")
	assert.NotContains(t, set, "password")
	assert.NotContains(t, set, "email")
}

func TestPostChanges_SetDoc_Empty(t *testing.T) {
	set := PostChanges{}.SetDoc()
	assert.Len(t, set, 1)
	assert.Contains(t, set, "updatedAt")
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
}
