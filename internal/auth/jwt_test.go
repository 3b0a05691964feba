package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "schema-ehnemark")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "Jennifer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Jennifer", claims.Username)
	assert.Equal(t, "schema-ehnemark", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", "schema-ehnemark").GenerateToken(uuid.New(), "Klas")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", "schema-ehnemark").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", "schema-ehnemark")
	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
