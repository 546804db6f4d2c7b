package permissions_test

import (
	"net/http"
	"testing"

	"innkeep/permissions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)
}

func find(t *testing.T, data *permissions.PermissionData, path, method string) permissions.Permission {
	t.Helper()

	permission, ok := data.FindPermissions(path, method)
	require.True(t, ok, "%s %s should be listed", method, path)

	return permission
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	assert.True(t, find(t, data, "/v1/hotels/{id}/availability", http.MethodGet).Skip)
	assert.Equal(t, []string{"system"}, find(t, data, "/v1/reservations/{id}/confirm-payment", http.MethodPost).Permissions)
	assert.Contains(t, find(t, data, "/v1/reservations/{id}/cancel", http.MethodPost).Permissions, "user")
	assert.NotContains(t, find(t, data, "/v1/reservations/stats", http.MethodGet).Permissions, "user")
	assert.Equal(t, find(t, data, "/v1/hotels", http.MethodPost), find(t, data, "/v1/hotels/", "post"))
}

func TestFindPermissions_Unlisted(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	permission, ok := data.FindPermissions("/v1/unknown", http.MethodGet)
	assert.False(t, ok)
	assert.False(t, permission.Allows("superadmin"))

	_, ok = data.FindPermissions("/v1/hotels/{id}", http.MethodPut)
	assert.False(t, ok)
}

func TestPermission_Allows(t *testing.T) {
	admin := permissions.Permission{Permissions: []string{"admin", "superadmin"}}

	assert.True(t, admin.Allows("admin"))
	assert.False(t, admin.Allows("user"))
	assert.False(t, admin.Allows(""))
	assert.False(t, permissions.Permission{}.Allows("user"))
	assert.False(t, permissions.Permission{Permissions: []string{}}.Allows("admin"))
	assert.True(t, permissions.Permission{Skip: true, Permissions: []string{"admin"}}.Allows("user"))
}
