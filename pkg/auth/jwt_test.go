package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{
		SecretKey: "test-secret-key-with-enough-entropy",
		Issuer:    "askbox-backend",
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig(), time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice", "alice@example.com", []string{"authenticated"})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"authenticated"}, claims.Roles)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	generator, err := NewJWTGenerator(testConfig(), time.Nanosecond)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice", "", nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	otherConfig := testConfig()
	otherConfig.SecretKey = "a-completely-different-secret-key"
	generator, err := NewJWTGenerator(otherConfig, time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice", "", nil)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	otherConfig := testConfig()
	otherConfig.Issuer = "someone-else"
	generator, err := NewJWTGenerator(otherConfig, time.Hour)
	require.NoError(t, err)
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := generator.GenerateToken("alice", "", nil)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	validator, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	_, err = validator.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestNewJWTValidatorRequiresSecret(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, OptionalUserID(ctx))

	ctx = SetUserInContext(ctx, &UserContext{UserID: "alice"})
	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserID)
	assert.Equal(t, "alice", OptionalUserID(ctx))
}
