package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campushq/its-api/internal/models"
)

func runWithClaims(t *testing.T, claims *models.AccessClaims, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/protected", nil)
	require.NoError(t, err)
	c.Request = req
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	guard(c)
	if !c.IsAborted() {
		c.Status(http.StatusOK)
	}
	return w
}

func TestRequireRoleAllowsMatchingFlag(t *testing.T) {
	w := runWithClaims(t, &models.AccessClaims{UserID: 1, IsManager: true}, RequireRole(models.RoleManager))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleAllowsAnyOf(t *testing.T) {
	w := runWithClaims(t, &models.AccessClaims{UserID: 1, IsTutor: true}, RequireRole(models.RoleTutor, models.RoleManager))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsMissingFlag(t *testing.T) {
	w := runWithClaims(t, &models.AccessClaims{UserID: 1, IsStudent: true}, RequireRole(models.RoleManager))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleSuperuserBypass(t *testing.T) {
	w := runWithClaims(t, &models.AccessClaims{UserID: 1, IsSuperuser: true}, RequireRole(models.RoleManager))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	w := runWithClaims(t, nil, RequireRole(models.RoleManager))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
