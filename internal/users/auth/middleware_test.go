// Copyright (c) 2026 Vidora. All rights reserved.

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/users/auth"
)

// stubVerifier accepts exactly one token string.
type stubVerifier struct {
	validToken string
	userID     string
}

func (verifier *stubVerifier) VerifyAccessToken(tokenString string) (*sec.AccessClaims, error) {
	if tokenString != verifier.validToken {
		return nil, sec.ErrInvalidToken
	}
	return &sec.AccessClaims{UserID: verifier.userID}, nil
}

// guardFixture builds the Authenticate+RequireAuth chain around a probe
// handler that records the resolved identity.
func guardFixture(t *testing.T) (http.Handler, *memoryUserRepository, *auth.User, *stubVerifier) {
	t.Helper()

	repo := newMemoryUserRepository()
	user := &auth.User{ID: "user-1", Username: "ana_k", Email: "ana@x.com"}
	require.NoError(t, repo.Create(context.Background(), user))

	verifier := &stubVerifier{validToken: "good-token", userID: user.ID}

	probe := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		caller := auth.UserFromContext(request.Context())
		require.NotNil(t, caller)
		assert.Equal(t, caller.ID, ctxutil.GetUserID(request.Context()))
		writer.WriteHeader(http.StatusOK)
	})

	chain := auth.Authenticate(verifier, repo)(auth.RequireAuth(probe))
	return chain, repo, user, verifier
}

func TestGuard_MissingToken(t *testing.T) {
	chain, _, _, _ := guardFixture(t)

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/current-user", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Unauthorized request")
}

func TestGuard_InvalidToken(t *testing.T) {
	chain, _, _, _ := guardFixture(t)

	request := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer bad-token")

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid Access Token")
}

func TestGuard_BearerToken(t *testing.T) {
	chain, _, _, _ := guardFixture(t)

	request := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer good-token")

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestGuard_CookieToken(t *testing.T) {
	chain, _, _, _ := guardFixture(t)

	request := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "good-token"})

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

// TestGuard_DeletedAccount: a cryptographically valid token whose account
// no longer exists must be rejected.
func TestGuard_DeletedAccount(t *testing.T) {
	chain, repo, user, _ := guardFixture(t)

	repo.mu.Lock()
	delete(repo.users, user.ID)
	repo.mu.Unlock()

	request := httptest.NewRequest(http.MethodGet, "/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer good-token")

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Invalid Access Token")
}
