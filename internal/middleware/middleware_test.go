package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequest))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name   string
		role   *models.Role
		status int
	}{
		{"no role", nil, http.StatusUnauthorized},
		{"allowed", rolePtr(models.RoleCEO), http.StatusOK},
		{"denied", rolePtr(models.RoleStaff), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				if tt.role != nil {
					c.Set(constants.ContextKeyUserRole, *tt.role)
				}
			})
			r.GET("/", RequireRole(models.RoleAdministrator, models.RoleCEO), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAdmin_AllowsManager(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(constants.ContextKeyUserRole, models.RoleManager)

	RequireAdmin()(c)

	assert.False(t, c.IsAborted())
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, uint64(42))
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	c.Set(constants.ContextKeyUserID, "42")
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

func rolePtr(r models.Role) *models.Role { return &r }
