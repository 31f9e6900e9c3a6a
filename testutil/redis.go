package testutil

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects to the Redis server named by TEST_REDIS_URL, skipping the
// test when the variable is not set. The database is flushed before use and
// the client is closed when the test finishes, so point TEST_REDIS_URL at a
// dedicated database index.
func NewRedis(t *testing.T) *redis.Client {
	t.Helper()

	opts, err := redis.ParseURL(requireEnv(t, "TEST_REDIS_URL"))
	if err != nil {
		t.Fatalf("testutil.NewRedis: parse url: %v", err)
	}

	client := redis.NewClient(opts)
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedis: ping: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedis: flush: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}
