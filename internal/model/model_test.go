package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleScan(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan("MANAGER"))
	assert.Equal(t, RoleManager, r)

	assert.Error(t, r.Scan("SUPERUSER"))
	assert.Error(t, r.Scan(42))
	// A failed scan leaves the previous value in place.
	assert.Equal(t, RoleManager, r)
}

func TestStatusScan(t *testing.T) {
	var s Status
	require.NoError(t, s.Scan("INACTIVE"))
	assert.Equal(t, StatusInactive, s)

	assert.Error(t, s.Scan("DELETED"))
	assert.Error(t, s.Scan(nil))
	assert.Equal(t, StatusInactive, s)
}
