package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockkeeper/internal/commons"
	"stockkeeper/internal/domain"
)

const testSecret = "test-secret"

func TestIssueAndParseToken_Admin(t *testing.T) {
	token, err := IssueToken(testSecret, domain.AdminCaller(1), time.Hour)
	require.NoError(t, err)

	caller, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.True(t, caller.IsAdmin())
	assert.Equal(t, int64(1), caller.UserID)
}

func TestIssueAndParseToken_Seller(t *testing.T) {
	token, err := IssueToken(testSecret, domain.SellerCaller(7), time.Hour)
	require.NoError(t, err)

	caller, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.False(t, caller.IsAdmin())
	assert.Equal(t, int64(7), caller.SellerID)
	assert.True(t, caller.CanActFor(7))
	assert.False(t, caller.CanActFor(8))
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, domain.AdminCaller(1), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken(testSecret, domain.AdminCaller(1), -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestParseToken_UnknownRole(t *testing.T) {
	claims := &Claims{
		Role:           "owner",
		StandardClaims: jwt.StandardClaims{Subject: "1", ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func TestMiddleware_ResolvesCaller(t *testing.T) {
	token, err := IssueToken(testSecret, domain.SellerCaller(3), time.Hour)
	require.NoError(t, err)

	var got domain.Caller
	handler := Middleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CallerFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(3), got.SellerID)
	assert.Equal(t, domain.RoleSeller, got.Role)
}

func TestMiddleware_MissingToken(t *testing.T) {
	called := false
	handler := Middleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp commons.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "UNAUTHORIZED", resp.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	handler := Middleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithCaller(req.Context(), domain.SellerCaller(2))))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithCaller(req.Context(), domain.AdminCaller(1))))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCallerFrom_Empty(t *testing.T) {
	caller := CallerFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, caller.IsAdmin())
	assert.False(t, caller.CanActFor(1))
}
