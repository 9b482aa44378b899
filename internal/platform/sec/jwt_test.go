// Copyright (c) 2026 Vidora. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

const (
	testAccessSecret  = "unit-test-access-secret"
	testRefreshSecret = "unit-test-refresh-secret"
	testIssuer        = "vidora.test"
)

func newTestService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, accessTTL, refreshTTL, testIssuer)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_SecretRules checks constructor-level secret hygiene.
*/
func TestNewTokenService_SecretRules(t *testing.T) {
	_, err := sec.NewTokenService("", testRefreshSecret, time.Minute, time.Hour, testIssuer)
	assert.Error(t, err, "empty access secret must be rejected")

	_, err = sec.NewTokenService(testAccessSecret, "", time.Minute, time.Hour, testIssuer)
	assert.Error(t, err, "empty refresh secret must be rejected")

	_, err = sec.NewTokenService("same", "same", time.Minute, time.Hour, testIssuer)
	assert.Error(t, err, "shared secret for both token kinds must be rejected")
}

/*
TestTokenService_AccessRoundTrip issues and verifies an access token.
*/
func TestTokenService_AccessRoundTrip(t *testing.T) {
	service := newTestService(t, 15*time.Minute, 10*24*time.Hour)

	token, err := service.IssueAccessToken("user-1", "ana", "ana@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestTokenService_RefreshRoundTrip issues and verifies a refresh token.
*/
func TestTokenService_RefreshRoundTrip(t *testing.T) {
	service := newTestService(t, 15*time.Minute, 10*24*time.Hour)

	token, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

/*
TestTokenService_KindSeparation ensures a token of one kind never verifies
as the other: the two classes are signed with independent secrets.
*/
func TestTokenService_KindSeparation(t *testing.T) {
	service := newTestService(t, 15*time.Minute, 10*24*time.Hour)

	accessToken, err := service.IssueAccessToken("user-1", "ana", "ana@x.com")
	require.NoError(t, err)
	refreshToken, err := service.IssueRefreshToken("user-1")
	require.NoError(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Expiry verifies that an expired token is rejected.
*/
func TestTokenService_Expiry(t *testing.T) {
	service := newTestService(t, -time.Minute, -time.Minute)

	accessToken, err := service.IssueAccessToken("user-1", "ana", "ana@x.com")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(accessToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenService_Garbage rejects structurally invalid token strings.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := newTestService(t, 15*time.Minute, 10*24*time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := service.VerifyAccessToken(token)
		assert.ErrorIs(t, err, sec.ErrInvalidToken, "token %q", token)
	}
}
