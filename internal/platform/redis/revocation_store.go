package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

const revocationKeyPrefix = "revoked:"

// RevocationStore implements auth.TokenRevoker on top of Redis. Revoked token
// IDs are kept only until the token's natural expiry; after that the token is
// rejected by its exp claim anyway, so the entry can lapse.
type RevocationStore struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewRevocationStore creates a Redis-backed revocation list.
// If logger is nil, a default logger will be used.
func NewRevocationStore(client *goredis.Client, logger *slog.Logger) *RevocationStore {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RevocationStore{
		client: client,
		logger: logger.With(slog.String("component", "revocation_store")),
	}
}

// Ensure RevocationStore implements auth.TokenRevoker interface
var _ auth.TokenRevoker = (*RevocationStore)(nil)

// Revoke implements auth.TokenRevoker.Revoke
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if ttl <= 0 {
		// Already past its expiry; nothing to remember.
		return nil
	}

	if err := s.client.Set(ctx, revocationKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		log.Error("failed to store token revocation",
			slog.String("error", err.Error()),
			slog.String("token_id", tokenID))
		return fmt.Errorf("failed to store token revocation: %w", err)
	}

	log.Info("token revoked", slog.String("token_id", tokenID))
	return nil
}

// IsRevoked implements auth.TokenRevoker.IsRevoked
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, revocationKeyPrefix+tokenID).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		log := logger.FromContextOrDefault(ctx, s.logger)
		log.Error("failed to check token revocation",
			slog.String("error", err.Error()),
			slog.String("token_id", tokenID))
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}
