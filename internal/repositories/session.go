package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mkorolev87/simple-auth/internal/logger"
)

// SessionRepository keeps the server-side half of a session in Redis.
// Logout deletes the record; a token whose record is gone no longer
// authenticates even if its signature is still valid.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new repository instance.
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// sessionKey builds the Redis key for a session token.
func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Save stores the session record. A zero ttl stores it without
// expiration (browser-session policy).
func (r *SessionRepository) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	key := sessionKey(token)
	err := r.client.Set(ctx, key, userID.String(), ttl).Err()

	logger.Log.Infow(
		"key", key,
		"user_id", userID,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// Get returns the user id bound to the session token. The second return
// value is false when no such session exists.
func (r *SessionRepository) Get(ctx context.Context, token string) (uuid.UUID, bool, error) {
	key := sessionKey(token)

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, err
	}

	return userID, true, nil
}

// Delete removes the session record. Deleting a record that does not
// exist is not an error, so termination is idempotent.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	key := sessionKey(token)
	err := r.client.Del(ctx, key).Err()

	logger.Log.Infow(
		"key", key,
		"error", err,
	)

	return err
}
