package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker("test_secret_key_1234567890", tokenTTL)

	token, err := maker.GenerateToken("5f2b7c1e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, "5f2b7c1e-0000-4000-8000-000000000001", claims.SessionID())
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestJWTMaker_GenerateToken_EmptySessionID(t *testing.T) {
	maker := NewJWTMaker("secret", time.Minute)
	_, err := maker.GenerateToken("")
	assert.Error(t, err)
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key", time.Minute)

	otherKey, err := NewJWTMaker("other_secret", time.Minute).GenerateToken("sid")
	require.NoError(t, err)

	expired, err := NewJWTMaker("test_secret_key", -time.Minute).GenerateToken("sid")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "sid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "sid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test_secret_key"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.token"},
		{name: "signed with other key", token: otherKey},
		{name: "expired", token: expired},
		{name: "alg none", token: noneToken},
		{name: "wrong issuer", token: wrongIssuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
