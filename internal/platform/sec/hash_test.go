// Copyright (c) 2026 Vidora. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip hashes and verifies a password.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// bcrypt digests are salted; the plaintext never appears.
	assert.NotContains(t, hash, "secret1")

	assert.True(t, sec.CheckPasswordHash("secret1", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestHashPassword_UniqueSalts confirms two hashes of the same input differ.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("secret1")
	require.NoError(t, err)
	second, err := sec.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_InvalidDigest treats a corrupt stored hash as a failed check.
*/
func TestCheckPasswordHash_InvalidDigest(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("secret1", "not-a-bcrypt-digest"))
}
