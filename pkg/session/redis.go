package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/yourcommute/pkg/cache"
	"github.com/matzehuels/yourcommute/pkg/errors"
)

// RedisStore keeps sessions in Redis with a per-key expiry, so Redis
// drops expired sessions on its own.
type RedisStore struct {
	client *redis.Client
	keyer  cache.Keyer
}

// NewRedisStore wraps client. A nil keyer means the default. The store
// never closes the client.
func NewRedisStore(client *redis.Client, keyer cache.Keyer) *RedisStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &RedisStore{client: client, keyer: keyer}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, nil
	}
	data, err := s.client.Get(ctx, s.keyer.SessionKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get session %s", id)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse session %s", id)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	if !ValidID(sess.ID) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid session id %q", sess.ID)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal session")
	}
	if err := s.client.Set(ctx, s.keyer.SessionKey(sess.ID), data, ttl).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "set session %s", sess.ID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.keyer.SessionKey(id)).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete session %s", id)
	}
	return nil
}

// Close leaves the shared client open.
func (s *RedisStore) Close() error { return nil }

var _ Store = (*RedisStore)(nil)
