package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

// newFixedClockService builds a service whose clock is pinned to the given
// time, with skew tolerance disabled so expiry tests are exact.
func newFixedClockService(lifetime time.Duration, now func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(testSecret),
		tokenLifetime: lifetime,
		timeFunc:      now,
		clockSkew:     0,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, svc.TokenLifetime())

	_, err = NewJWTService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := newFixedClockService(tokenLifetime, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")
}

func TestGenerateTokenUniqueIDs(t *testing.T) {
	t.Parallel()

	svc := newFixedClockService(time.Hour, time.Now)
	userID := uuid.New()

	first, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	firstClaims, err := svc.ValidateToken(context.Background(), first)
	require.NoError(t, err)
	secondClaims, err := svc.ValidateToken(context.Background(), second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newFixedClockService(tokenLifetime, func() time.Time { return fixedTime })
				token, err := svc.GenerateToken(context.Background(), userID)
				require.NoError(t, err)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				issuer := newFixedClockService(tokenLifetime, func() time.Time { return fixedTime })
				token, err := issuer.GenerateToken(context.Background(), userID)
				require.NoError(t, err)

				// Validate after the lifetime has elapsed
				validator := newFixedClockService(tokenLifetime, func() time.Time {
					return fixedTime.Add(tokenLifetime + time.Minute)
				})
				return validator, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "token signed with a different key",
			setupFunc: func(t *testing.T) (JWTService, string) {
				issuer := &hmacJWTService{
					signingKey:    []byte("another-secret-that-is-long-enough!!"),
					tokenLifetime: tokenLifetime,
					timeFunc:      func() time.Time { return fixedTime },
				}
				token, err := issuer.GenerateToken(context.Background(), userID)
				require.NoError(t, err)

				validator := newFixedClockService(tokenLifetime, func() time.Time { return fixedTime })
				return validator, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newFixedClockService(tokenLifetime, func() time.Time { return fixedTime })
				return svc, "not.a.jwt"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func(t *testing.T) (JWTService, string) {
				svc := newFixedClockService(tokenLifetime, func() time.Time { return fixedTime })
				return svc, ""
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tc.setupFunc(t)

			claims, err := svc.ValidateToken(context.Background(), token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, hasher.Compare(hash, "secret1"))
	assert.Error(t, hasher.Compare(hash, "wrong-password"))
}
