package handlers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Secret:      []byte("test-secret"),
		TrustDomain: "http://www.security.org",
		TokenTTL:    120 * time.Minute,
	}
}

func TestMintSessionToken(t *testing.T) {
	cfg := testTokenConfig()
	before := time.Now()

	token, expiresAt, err := MintSessionToken(cfg, "user-123", []string{"User"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Срок действия — ровно TTL от момента выпуска
	assert.False(t, expiresAt.Before(before.Add(cfg.TokenTTL)))
	assert.False(t, expiresAt.After(time.Now().Add(cfg.TokenTTL)))

	claims, err := ValidateSessionToken(cfg, token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "user-123", claims.NameID)
	assert.Equal(t, []string{"User"}, claims.Roles)
	assert.Equal(t, cfg.TrustDomain, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{cfg.TrustDomain}, claims.Audience)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestMintSessionToken_MultipleRoles(t *testing.T) {
	cfg := testTokenConfig()

	token, _, err := MintSessionToken(cfg, "user-123", []string{"Admin", "User"})
	require.NoError(t, err)

	claims, err := ValidateSessionToken(cfg, token)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Admin", "User"}, claims.Roles)
}

func TestMintSessionToken_NoRoles(t *testing.T) {
	cfg := testTokenConfig()

	token, _, err := MintSessionToken(cfg, "user-123", nil)
	require.NoError(t, err)

	claims, err := ValidateSessionToken(cfg, token)
	require.NoError(t, err)
	assert.Empty(t, claims.Roles)
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	cfg := testTokenConfig()

	token, _, err := MintSessionToken(cfg, "user-123", nil)
	require.NoError(t, err)

	other := cfg
	other.Secret = []byte("other-secret")
	_, err = ValidateSessionToken(other, token)
	assert.Error(t, err)
}

func TestValidateSessionToken_Expired(t *testing.T) {
	cfg := testTokenConfig()
	cfg.TokenTTL = -1 * time.Minute

	token, _, err := MintSessionToken(cfg, "user-123", nil)
	require.NoError(t, err)

	_, err = ValidateSessionToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateSessionToken_WrongTrustDomain(t *testing.T) {
	cfg := testTokenConfig()

	token, _, err := MintSessionToken(cfg, "user-123", nil)
	require.NoError(t, err)

	other := cfg
	other.TrustDomain = "http://other.example.org"
	_, err = ValidateSessionToken(other, token)
	assert.Error(t, err)
}

func TestValidateSessionToken_WrongSigningMethod(t *testing.T) {
	cfg := testTokenConfig()

	// Токен без подписи не должен приниматься
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    cfg.TrustDomain,
		Audience:  jwt.ClaimStrings{cfg.TrustDomain},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateSessionToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateSessionToken_Garbage(t *testing.T) {
	_, err := ValidateSessionToken(testTokenConfig(), "not-a-token")
	assert.Error(t, err)
}
