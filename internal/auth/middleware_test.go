package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "ptexercise.identity"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func testMiddleware(skipper Skipper) Middleware {
	return NewMiddleware(Config{Secret: testSecret, Issuer: testIssuer}, skipper)
}

func okHandler(claimsSeen *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); ok && claimsSeen != nil {
			*claimsSeen = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub":    "coach",
		"iss":    testIssuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": "catalog:read catalog:write",
	})

	var claimsSeen bool
	wrapped := testMiddleware(nil).Wrap(okHandler(&claimsSeen))

	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, claimsSeen, "claims must be stored on the request context")
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	wrapped := testMiddleware(nil).Wrap(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareRejectsWrongIssuer(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub": "coach",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	wrapped := testMiddleware(nil).Wrap(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMiddlewareSkipperBypassesAuth(t *testing.T) {
	skipper := func(r *http.Request) bool {
		return strings.HasPrefix(r.URL.Path, "/api/exercise-image/")
	}
	wrapped := testMiddleware(skipper).Wrap(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/exercise-image/curl", nil)
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestParseNormalizesScopes(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub":    "coach",
		"iss":    testIssuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopeCatalogRead, ""},
	})

	claims, err := Parse(token, Config{Secret: testSecret, Issuer: testIssuer})
	require.NoError(t, err)
	require.True(t, claims.HasScope(ScopeCatalogRead))
	require.False(t, claims.HasScope(ScopeCatalogWrite))
}
