package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

func TestJWTMaker_GenerateAndParse(t *testing.T) {
	ttl := 24 * time.Hour
	maker := NewJWTMaker("test_secret_key_1234567890", ttl)

	tests := []struct {
		name    string
		actorID string
		role    models.Role
	}{
		{name: "client", actorID: "5f7c1c1e-1111-4a4a-9b9b-000000000001", role: models.RoleClient},
		{name: "worker", actorID: "5f7c1c1e-1111-4a4a-9b9b-000000000002", role: models.RoleWorker},
		{name: "admin", actorID: "5f7c1c1e-1111-4a4a-9b9b-000000000003", role: models.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.actorID, tt.role)
			require.NoError(t, err)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.actorID, claims.ActorID)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.actorID, claims.Subject)
			assert.WithinDuration(t, time.Now().Add(ttl), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseInvalid(t *testing.T) {
	secret := "test_secret_key_1234567890"
	maker := NewJWTMaker(secret, time.Hour)

	valid, err := maker.GenerateToken("actor-1", models.RoleClient)
	require.NoError(t, err)

	expired, err := NewJWTMaker(secret, -time.Hour).GenerateToken("actor-1", models.RoleClient)
	require.NoError(t, err)

	foreign, err := NewJWTMaker("another_secret", time.Hour).GenerateToken("actor-1", models.RoleClient)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{ActorID: "actor-1", Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "malformed", token: "invalid.token.here"},
		{name: "expired", token: expired},
		{name: "wrong secret", token: foreign},
		{name: "tampered", token: valid + "x"},
		{name: "none algorithm", token: noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_UsesClock(t *testing.T) {
	maker := NewJWTMaker("secret", time.Hour)
	fixed := time.Now().Add(-30 * time.Minute)
	maker.now = func() time.Time { return fixed }

	token, err := maker.GenerateToken("actor-1", models.RoleWorker)
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, fixed.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
	assert.Equal(t, time.Hour, maker.TTL())
}
