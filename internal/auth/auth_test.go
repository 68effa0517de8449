package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evently-labs/event-booking-api/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateToken("user-1", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	m1, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)
	m2, err := NewJWTManager("another-secret-another-secret-32", time.Hour)
	require.NoError(t, err)

	token, err := m1.GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)

	_, err = m2.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager(testSecret, -time.Minute)
	require.NoError(t, err)

	token, err := m.GenerateToken("user-1", model.RoleUser)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery", 10)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestProtectMiddleware(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	var seen *Subject
	handler := Protect(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := m.GenerateToken("user-7", model.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-7", seen.UserID)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	m, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)

	handler := Protect(m)(RequireRole(model.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	request := func(role string) *httptest.ResponseRecorder {
		token, err := m.GenerateToken("user-1", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, request(model.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, request(model.RoleUser).Code)
}
