package verification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	return client
}

func TestRedisStoreConsume(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	store := NewRedisStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, "+12025550100", "123456", time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Wrong code does not consume the stored one.
	ok, err := store.Consume(ctx, "+12025550100", "000000")
	if err != nil || ok {
		t.Errorf("wrong code: expected miss, got ok=%v err=%v", ok, err)
	}
	ok, err = store.Consume(ctx, "+12025550100", "123456")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	// Codes are single-use.
	ok, _ = store.Consume(ctx, "+12025550100", "123456")
	if ok {
		t.Error("expected consumed code to be gone")
	}
}

func TestRedisStoreConsumeOnce(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()
	store := NewRedisStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, "+12025550101", "654321", time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Concurrent verifies race for the same code, exactly one may win.
	const attempts = 10
	var wg sync.WaitGroup
	wins := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Consume(ctx, "+12025550101", "654321")
			if err != nil {
				t.Errorf("consume failed: %v", err)
				return
			}
			if ok {
				wins <- true
			}
		}()
	}
	wg.Wait()
	close(wins)

	if got := len(wins); got != 1 {
		t.Errorf("expected exactly one successful consume, got %d", got)
	}
}
