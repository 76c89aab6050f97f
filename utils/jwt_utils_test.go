package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("Alice", "alice@x.com", "member")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@x.com", claims.Email)
	assert.Equal(t, "member", claims.Role)
}

// The secret is read from the environment per call, so a value loaded from
// .env after startup is honored and tokens signed with the empty key are
// rejected once a real secret is in place.
func TestSecretResolvedAfterStartup(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-from-dotenv")

	token, err := GenerateToken("Alice", "alice@x.com", "chairperson")
	require.NoError(t, err)
	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "chairperson", claims.Role)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Name:  "Mallory",
		Email: "mallory@x.com",
		Role:  "chairperson",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
		},
	})
	forgedStr, err := forged.SignedString([]byte(""))
	require.NoError(t, err)

	_, err = ValidateToken(forgedStr)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken("Alice", "alice@x.com", "member")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)
	_, err = ValidateToken("")
	assert.Error(t, err)
}
