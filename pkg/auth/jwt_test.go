package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetcare/clinic-api/pkg/apperror"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", "vetcare", time.Hour)

	userID := uuid.New().String()
	clinicID := uuid.New().String()
	token, err := svc.Generate(userID, "VETERINARIAN", clinicID, "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "VETERINARIAN", claims.Role)
	assert.Equal(t, clinicID, claims.ClinicID)
	assert.Empty(t, claims.OwnerID)
	assert.Equal(t, "vetcare", claims.Issuer)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", "vetcare", time.Hour)
	verifier := NewTokenService("secret-b", "vetcare", time.Hour)

	token, err := issuer.Generate(uuid.New().String(), "ADMIN", "", "")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidCredential))
}

func TestValidateExpired(t *testing.T) {
	svc := NewTokenService("test-secret", "vetcare", -time.Minute)
	// Negative ttl falls back to the default, so build one past expiry by hand.
	svc.ttl = -time.Minute

	token, err := svc.Generate(uuid.New().String(), "ADMIN", "", "")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", "vetcare", time.Hour)

	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidCredential))
}

func TestGenerateEmptySecret(t *testing.T) {
	svc := NewTokenService("", "vetcare", time.Hour)

	_, err := svc.Generate(uuid.New().String(), "ADMIN", "", "")
	assert.Error(t, err)
}
