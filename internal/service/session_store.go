package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenKeyFormat  = "access_token:%s:%s"
	refreshTokenKeyFormat = "refresh_token:%s:%s"
	sessionScanCount      = 100
)

// SessionStore tracks issued token IDs in Redis. A token is only honoured while its key exists.
type SessionStore struct {
	redisClient *redis.Client
}

func NewSessionStore(redisClient *redis.Client) *SessionStore {
	return &SessionStore{redisClient: redisClient}
}

func (s *SessionStore) SavePair(ctx context.Context, userID uuid.UUID, accessID string, accessTTL time.Duration, refreshID string, refreshTTL time.Duration) error {
	pipe := s.redisClient.TxPipeline()
	pipe.Set(ctx, accessKey(userID, accessID), "valid", accessTTL)
	pipe.Set(ctx, refreshKey(userID, refreshID), "valid", refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session tokens: %w", err)
	}
	return nil
}

func (s *SessionStore) AccessValid(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, accessKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ConsumeRefresh deletes the refresh token and reports whether it was still present.
func (s *SessionStore) ConsumeRefresh(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.redisClient.Del(ctx, refreshKey(userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke removes the given tokens. Empty IDs are skipped.
func (s *SessionStore) Revoke(ctx context.Context, userID uuid.UUID, accessID, refreshID string) error {
	var keys []string
	if accessID != "" {
		keys = append(keys, accessKey(userID, accessID))
	}
	if refreshID != "" {
		keys = append(keys, refreshKey(userID, refreshID))
	}
	if len(keys) == 0 {
		return nil
	}
	return s.redisClient.Del(ctx, keys...).Err()
}

// RevokeAll drops every session of a user, e.g. after deactivation.
func (s *SessionStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, pattern := range []string{accessKey(userID, "*"), refreshKey(userID, "*")} {
		iter := s.redisClient.Scan(ctx, 0, pattern, sessionScanCount).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan sessions: %w", err)
		}
		if len(keys) > 0 {
			if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete sessions: %w", err)
			}
		}
	}
	return nil
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf(accessTokenKeyFormat, userID.String(), tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf(refreshTokenKeyFormat, userID.String(), tokenID)
}
