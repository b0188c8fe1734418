package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryAllowsUpToLimit(t *testing.T) {
	m := NewMemory(6, 24*time.Hour)
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		res, err := m.Limit(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Limit returned error on request %d: %v", i, err)
		}
		if !res.Allowed {
			t.Errorf("Request %d should be allowed", i)
		}
		if res.Remaining != 6-i {
			t.Errorf("Request %d: expected remaining %d, got %d", i, 6-i, res.Remaining)
		}
	}

	res, err := m.Limit(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Limit returned error: %v", err)
	}
	if res.Allowed {
		t.Error("7th request should be denied")
	}
	if res.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", res.Remaining)
	}
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	m := NewMemory(1, time.Hour)
	ctx := context.Background()

	if res, _ := m.Limit(ctx, "1.1.1.1"); !res.Allowed {
		t.Error("First request for key A should be allowed")
	}
	if res, _ := m.Limit(ctx, "2.2.2.2"); !res.Allowed {
		t.Error("First request for key B should be allowed")
	}
	if res, _ := m.Limit(ctx, "1.1.1.1"); res.Allowed {
		t.Error("Second request for key A should be denied")
	}
}

func TestMemoryWindowResets(t *testing.T) {
	m := NewMemory(2, time.Hour)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Limit(ctx, "k")
	m.Limit(ctx, "k")
	if res, _ := m.Limit(ctx, "k"); res.Allowed {
		t.Error("Third request within window should be denied")
	}

	// Advance past the window boundary: counter resets.
	now = now.Add(time.Hour)
	res, _ := m.Limit(ctx, "k")
	if !res.Allowed {
		t.Error("Request after window reset should be allowed")
	}
	if res.Remaining != 1 {
		t.Errorf("Expected remaining 1 after reset, got %d", res.Remaining)
	}
}

func TestSQLiteLimiterFixedWindow(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/ratelimit.db")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	lim := store.Limiter("chat", 2, time.Hour)
	lim.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		res, err := lim.Limit(ctx, "9.9.9.9")
		if err != nil {
			t.Fatalf("Limit returned error on request %d: %v", i, err)
		}
		if !res.Allowed {
			t.Errorf("Request %d should be allowed", i)
		}
	}

	res, err := lim.Limit(ctx, "9.9.9.9")
	if err != nil {
		t.Fatalf("Limit returned error: %v", err)
	}
	if res.Allowed {
		t.Error("Request over limit should be denied")
	}
	if got, want := res.Reset, now.Add(time.Hour); !got.Equal(want) {
		t.Errorf("Expected reset at %v, got %v", want, got)
	}

	// Counter resets once the window has elapsed.
	now = now.Add(time.Hour)
	res, err = lim.Limit(ctx, "9.9.9.9")
	if err != nil {
		t.Fatalf("Limit returned error after reset: %v", err)
	}
	if !res.Allowed {
		t.Error("Request in a fresh window should be allowed")
	}
}

func TestSQLiteLimiterPurposesDoNotCollide(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/ratelimit.db")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	chat := store.Limiter("chat", 1, time.Hour)
	leads := store.Limiter("leads", 1, time.Hour)
	ctx := context.Background()

	if res, _ := chat.Limit(ctx, "5.5.5.5"); !res.Allowed {
		t.Error("First chat request should be allowed")
	}
	if res, _ := leads.Limit(ctx, "5.5.5.5"); !res.Allowed {
		t.Error("First leads request for the same IP should be allowed")
	}
	if res, _ := chat.Limit(ctx, "5.5.5.5"); res.Allowed {
		t.Error("Second chat request should be denied")
	}
}

func TestSQLitePruneExpired(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir() + "/ratelimit.db")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	old := time.Now().Add(-48 * time.Hour)
	lim := store.Limiter("chat", 6, 24*time.Hour)
	lim.now = func() time.Time { return old }
	if _, err := lim.Limit(context.Background(), "1.2.3.4"); err != nil {
		t.Fatalf("Limit returned error: %v", err)
	}

	pruned, err := store.PruneExpired(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneExpired returned error: %v", err)
	}
	if pruned != 1 {
		t.Errorf("Expected 1 pruned row, got %d", pruned)
	}
}
