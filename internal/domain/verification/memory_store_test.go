package verification

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreConsume(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
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

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	store.Put(ctx, "+12025550100", "123456", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	ok, _ := store.Consume(ctx, "+12025550100", "123456")
	if ok {
		t.Error("expected expired code to be rejected")
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	store.Put(ctx, "+12025550100", "111111", 10*time.Millisecond)
	store.Put(ctx, "+12025550101", "222222", time.Minute)

	// Wait past the expiry and at least one sweep tick.
	deadline := time.Now().Add(500 * time.Millisecond)
	for store.Len() > 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if store.Len() != 1 {
		t.Errorf("expected sweep to evict expired entry, have %d", store.Len())
	}

	// The live entry survives.
	ok, _ := store.Consume(ctx, "+12025550101", "222222")
	if !ok {
		t.Error("expected live code to survive the sweep")
	}
}

func TestMemoryStoreReissueReplaces(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	store.Put(ctx, "+12025550100", "111111", time.Minute)
	store.Put(ctx, "+12025550100", "222222", time.Minute)

	if ok, _ := store.Consume(ctx, "+12025550100", "111111"); ok {
		t.Error("expected old code to be replaced")
	}
	if ok, _ := store.Consume(ctx, "+12025550100", "222222"); !ok {
		t.Error("expected new code to match")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := generateNumericCode(6)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		seen[code] = true
	}
	// 100 draws from a million-value space should not all collide.
	if len(seen) < 50 {
		t.Errorf("suspiciously many collisions: %d distinct codes", len(seen))
	}
}
