package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease key only when the fencing token matches,
// so an expired lease re-acquired by another invocation is never released
// by the original holder.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLeaseManager implements LeaseManager on Redis using SET NX PX with
// a per-lease fencing token. An optional Prober supplies the not-found
// signal before arbitration.
type RedisLeaseManager struct {
	client *redis.Client
	ttl    time.Duration
	prober Prober
}

// NewRedisLeaseManager creates a lease manager from a Redis URL.
// prober may be nil, in which case not-found is never reported.
func NewRedisLeaseManager(redisURL string, ttl time.Duration, prober Prober) (*RedisLeaseManager, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewRedisLeaseManagerWithClient(client, ttl, prober), nil
}

// NewRedisLeaseManagerWithClient wraps an existing Redis client.
func NewRedisLeaseManagerWithClient(client *redis.Client, ttl time.Duration, prober Prober) *RedisLeaseManager {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &RedisLeaseManager{
		client: client,
		ttl:    ttl,
		prober: prober,
	}
}

// Acquire attempts to take the exclusive lease on blobURL.
func (m *RedisLeaseManager) Acquire(ctx context.Context, blobURL string) (Lease, error) {
	if blobURL == "" {
		return nil, fmt.Errorf("blobstore: empty blob URL")
	}

	if m.prober != nil {
		exists, err := m.prober.Exists(ctx, blobURL)
		if err != nil {
			return nil, fmt.Errorf("probe blob: %w", err)
		}
		if !exists {
			return nil, ErrBlobNotFound
		}
	}

	token := uuid.New().String()
	key := leaseKey(blobURL)

	ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lease: %w", err)
	}
	if !ok {
		return nil, ErrLeaseHeld
	}

	return &redisLease{client: m.client, key: key, token: token}, nil
}

// Close releases the underlying Redis connection.
func (m *RedisLeaseManager) Close() error {
	return m.client.Close()
}

type redisLease struct {
	client *redis.Client
	key    string
	token  string
	once   sync.Once
	err    error
}

// Release deletes the lease key if this invocation still holds it.
func (l *redisLease) Release(ctx context.Context) error {
	l.once.Do(func() {
		_, l.err = l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Result()
	})
	return l.err
}

func leaseKey(blobURL string) string {
	sum := sha256.Sum256([]byte(blobURL))
	return "dropgate:lease:" + hex.EncodeToString(sum[:])
}
