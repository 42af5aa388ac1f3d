package services

import (
	"testing"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJWTService(testConfig(), db)

	admin := &models.Admin{
		ID:    42,
		Email: "alice@campus.edu",
		Roles: models.RoleList{1, 5150},
	}

	token, err := svc.GenerateAccessToken(admin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ExtractAccessClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AdminID)
	assert.Equal(t, "alice@campus.edu", claims.Email)
	assert.Equal(t, models.RoleList{1, 5150}, claims.Roles)
}

func TestRefreshTokenCarriesEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJWTService(testConfig(), db)

	admin := &models.Admin{ID: 7, Email: "bob@campus.edu"}

	token, err := svc.GenerateRefreshToken(admin)
	require.NoError(t, err)

	parsed, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "bob@campus.edu", claims["email"])
}

func TestTokensUseSeparateSecrets(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJWTService(testConfig(), db)

	admin := &models.Admin{ID: 1, Email: "carol@campus.edu"}

	access, err := svc.GenerateAccessToken(admin)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(admin)
	require.NoError(t, err)

	// 访问令牌不能通过刷新密钥验证，反之亦然
	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	db := setupTestDB(t)
	svc := NewJWTService(testConfig(), db)

	otherCfg := &config.Config{
		AccessTokenSecret:  "other-access-secret",
		RefreshTokenSecret: "other-refresh-secret",
	}
	other := NewJWTService(otherCfg, db)

	admin := &models.Admin{ID: 1, Email: "dave@campus.edu"}
	token, err := other.GenerateAccessToken(admin)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.Error(t, err)

	_, err = svc.ExtractAccessClaims("not-a-token")
	assert.Error(t, err)
}
