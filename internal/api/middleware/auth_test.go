package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seatwise/server/internal/auth"
)

func testManager(t *testing.T) *auth.JWTManager {
	t.Helper()
	return auth.NewJWTManager("test-secret", time.Hour, "seatwise")
}

func okHandler(t *testing.T, wantUserID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantUserID != "" {
			require.Equal(t, wantUserID, UserID(r))
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAcceptsValidToken(t *testing.T) {
	manager := testManager(t)
	token, _, err := manager.Generate("user-1", "user")
	require.NoError(t, err)

	handler := Auth(manager, "test")(okHandler(t, "user-1"))

	r := httptest.NewRequest("GET", "/api/v1/registrations", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(testManager(t), "test")(okHandler(t, ""))

	r := httptest.NewRequest("GET", "/api/v1/registrations", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(testManager(t), "test")(okHandler(t, ""))

	r := httptest.NewRequest("GET", "/api/v1/registrations", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	manager := testManager(t)
	token, _, err := manager.Generate("admin-1", "admin")
	require.NoError(t, err)

	handler := Auth(manager, "test")(RequireAdmin("test")(okHandler(t, "admin-1")))

	r := httptest.NewRequest("DELETE", "/api/v1/events/abc", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	manager := testManager(t)
	token, _, err := manager.Generate("user-1", "user")
	require.NoError(t, err)

	handler := Auth(manager, "test")(RequireAdmin("test")(okHandler(t, "")))

	r := httptest.NewRequest("DELETE", "/api/v1/events/abc", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminWithoutAuth(t *testing.T) {
	handler := RequireAdmin("test")(okHandler(t, ""))

	r := httptest.NewRequest("DELETE", "/api/v1/events/abc", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
