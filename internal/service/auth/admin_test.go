package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminVerifier(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("internal-admin-token"), bcrypt.MinCost)
	require.NoError(t, err)

	v, err := NewAdminVerifier(string(hash))
	require.NoError(t, err)

	assert.NoError(t, v.Verify("internal-admin-token"))
	assert.ErrorIs(t, v.Verify("guess"), ErrInvalidAdminToken)
	assert.ErrorIs(t, v.Verify(""), ErrMissingToken)
}

func TestNewAdminVerifier_RejectsPlaintext(t *testing.T) {
	_, err := NewAdminVerifier("not-a-hash")
	assert.Error(t, err)
}

func TestHashAdminToken(t *testing.T) {
	_, err := HashAdminToken("short")
	assert.Error(t, err)

	hash, err := HashAdminToken("a-sufficiently-long-token")
	require.NoError(t, err)

	v, err := NewAdminVerifier(hash)
	require.NoError(t, err)
	assert.NoError(t, v.Verify("a-sufficiently-long-token"))
}
