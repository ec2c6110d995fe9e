package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFavorite(t *testing.T) {
	f, err := NewFavorite(3, 7)
	require.NoError(t, err)
	assert.Equal(t, Favorite{AccountID: 3, InvID: 7}, f)

	_, err = NewFavorite(0, 7)
	assert.Error(t, err)
	_, err = NewFavorite(3, -1)
	assert.Error(t, err)
}

func TestRole_IsStaff(t *testing.T) {
	assert.False(t, RoleClient.IsStaff())
	assert.True(t, RoleEmployee.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
}
