package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-exam-workflow-api/internal/models"
	appErrors "github.com/noah-isme/sma-exam-workflow-api/pkg/errors"
)

func signToken(t *testing.T, secret string, claims *models.JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIdentityServiceValidateToken(t *testing.T) {
	svc := NewIdentityService(IdentityConfig{Secret: "secret", Issuer: "school-idp"})
	token := signToken(t, "secret", &models.JWTClaims{
		UserID:   "user-1",
		TenantID: "school-a",
		Role:     "EXAM_COMMITTEE",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "school-idp",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleExamCommittee, claims.Role)
	assert.Equal(t, "school-a", claims.TenantID)
}

func TestIdentityServiceRejectsBadTokens(t *testing.T) {
	svc := NewIdentityService(IdentityConfig{Secret: "secret", Issuer: "school-idp"})
	valid := jwt.RegisteredClaims{Issuer: "school-idp", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	cases := map[string]string{
		"wrong secret": signToken(t, "other", &models.JWTClaims{UserID: "u", TenantID: "t", Role: models.RoleAdmin, RegisteredClaims: valid}),
		"wrong issuer": signToken(t, "secret", &models.JWTClaims{UserID: "u", TenantID: "t", Role: models.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere"}}),
		"expired": signToken(t, "secret", &models.JWTClaims{UserID: "u", TenantID: "t", Role: models.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "school-idp", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}),
		"missing tenant": signToken(t, "secret", &models.JWTClaims{UserID: "u", Role: models.RoleAdmin, RegisteredClaims: valid}),
		"unknown role":   signToken(t, "secret", &models.JWTClaims{UserID: "u", TenantID: "t", Role: "janitor", RegisteredClaims: valid}),
		"garbage":        "not.a.jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
		})
	}
}
