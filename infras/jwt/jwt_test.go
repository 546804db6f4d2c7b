package jwt_test

import (
	"context"
	"testing"
	"time"

	"innkeep/config"
	"innkeep/infras/jwt"
	otelMocks "innkeep/infras/otel/mocks"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method gojwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func claims(expires time.Time, tokenType jwt.TokenType) jwt.Claims {
	return jwt.Claims{
		UserID:  "u-1",
		Role:    "user",
		TokenID: "t-1",
		Type:    tokenType,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "innkeep",
			ExpiresAt: gojwt.NewNumericDate(expires),
		},
	}
}

func TestValidateToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.AccessSecret = secret
	cfg.JWT.Issuer = "innkeep"

	svc := jwt.New(cfg, otelMocks.NewOtel())
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid", sign(t, gojwt.SigningMethodHS256, []byte(secret), claims(future, jwt.AccessToken)), nil},
		{"expired", sign(t, gojwt.SigningMethodHS256, []byte(secret), claims(time.Now().Add(-time.Hour), jwt.AccessToken)), jwt.ErrExpiredToken},
		{"wrong secret", sign(t, gojwt.SigningMethodHS256, []byte("other"), claims(future, jwt.AccessToken)), jwt.ErrInvalidToken},
		{"refresh token", sign(t, gojwt.SigningMethodHS256, []byte(secret), claims(future, "refresh")), jwt.ErrInvalidClaim},
		{"garbage", "not-a-token", jwt.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ValidateToken(context.Background(), tt.token, jwt.AccessToken)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u-1", got.UserID)
			assert.Equal(t, "user", got.Role)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}
