package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/middleware"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
)

const testSecret = "middleware-test-secret"

// guarded wraps a trivial handler in RequireAuth plus the given role guard
// and returns the status code for a request carrying the profile's token.
func guarded(t *testing.T, guard func(http.Handler) http.Handler, profile *models.UserProfile) int {
	t.Helper()
	sessions := services.NewMemorySessionStore()
	sid := "sess-" + profile.UID
	require.NoError(t, sessions.Save(context.Background(), sid, profile))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	chain := middleware.RequireAuth(testSecret, sessions)(guard(ok))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireStudent(t *testing.T) {
	student := &models.UserProfile{UID: "21CS045", Role: models.RoleStudent}
	warden := &models.UserProfile{UID: services.WardenUID, Role: models.RoleWarden}

	assert.Equal(t, http.StatusNoContent, guarded(t, middleware.RequireStudent(), student))
	assert.Equal(t, http.StatusForbidden, guarded(t, middleware.RequireStudent(), warden))
}

func TestRequireWarden(t *testing.T) {
	student := &models.UserProfile{UID: "21CS045", Role: models.RoleStudent}
	warden := &models.UserProfile{UID: services.WardenUID, Role: models.RoleWarden}

	assert.Equal(t, http.StatusNoContent, guarded(t, middleware.RequireWarden(), warden))
	assert.Equal(t, http.StatusForbidden, guarded(t, middleware.RequireWarden(), student))
}
