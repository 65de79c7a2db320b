package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"campusquery/internal/auth"
)

func testToken(t *testing.T, role auth.Role) string {
	t.Helper()
	user := &auth.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@campus.edu",
		Role:  role,
	}
	token, err := auth.GenerateJWT(user, time.Hour)
	require.NoError(t, err)
	return token
}

func newGatedServer() *echo.Echo {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/listings", ok, JWTMiddleware)
	e.POST("/notices", ok, JWTMiddleware, CasbinMiddleware)
	e.POST("/events", ok, JWTMiddleware, CasbinMiddleware)
	return e
}

func doPost(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddleware(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	e := newGatedServer()

	t.Run("missing token", func(t *testing.T) {
		rec := doPost(e, "/listings", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doPost(e, "/listings", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := doPost(e, "/listings", testToken(t, auth.RoleStudent))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCasbinMiddleware(t *testing.T) {
	t.Setenv("JWT_KEY", "test-secret")
	e := newGatedServer()

	tests := []struct {
		name string
		role auth.Role
		path string
		want int
	}{
		{"admin posts notice", auth.RoleAdmin, "/notices", http.StatusOK},
		{"admin posts event", auth.RoleAdmin, "/events", http.StatusOK},
		{"student posts notice", auth.RoleStudent, "/notices", http.StatusForbidden},
		{"faculty posts notice", auth.RoleFaculty, "/notices", http.StatusForbidden},
		{"student posts event", auth.RoleStudent, "/events", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doPost(e, tt.path, testToken(t, tt.role))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	t.Run("denial shape is uniform", func(t *testing.T) {
		student := doPost(e, "/notices", testToken(t, auth.RoleStudent))
		faculty := doPost(e, "/notices", testToken(t, auth.RoleFaculty))
		assert.Equal(t, student.Body.String(), faculty.Body.String())
	})
}
