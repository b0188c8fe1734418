package quota

import (
	"encoding/json"
	"testing"
	"time"
)

// memKV is an in-memory KV for tests.
type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIncrementAddsExactlyOne(t *testing.T) {
	s := New(newMemKV())

	if got := s.Count(); got != 0 {
		t.Errorf("Expected initial count 0, got %d", got)
	}
	if got := s.Increment(); got != 1 {
		t.Errorf("Expected count 1 after increment, got %d", got)
	}
	if got := s.Increment(); got != 2 {
		t.Errorf("Expected count 2 after second increment, got %d", got)
	}
	if got := s.Count(); got != 2 {
		t.Errorf("Expected persisted count 2, got %d", got)
	}
}

func TestRollbackRestoresPriorCount(t *testing.T) {
	s := New(newMemKV())

	s.Increment()
	s.Increment()
	before := s.Count()
	s.Increment()
	if got := s.Rollback(); got != before {
		t.Errorf("Expected rollback to restore count %d, got %d", before, got)
	}
}

func TestRollbackFloorsAtZero(t *testing.T) {
	s := New(newMemKV())

	if got := s.Rollback(); got != 0 {
		t.Errorf("Expected rollback on empty store to stay at 0, got %d", got)
	}
	s.Increment()
	s.Rollback()
	if got := s.Rollback(); got != 0 {
		t.Errorf("Expected repeated rollback to floor at 0, got %d", got)
	}
}

func TestDateRolloverResetsCount(t *testing.T) {
	kv := newMemKV()
	s := New(kv)
	s.now = fixedClock(time.Date(2026, 1, 10, 23, 0, 0, 0, time.Local))

	s.Increment()
	s.Increment()
	s.Increment()
	if got := s.Count(); got != 3 {
		t.Fatalf("Expected count 3, got %d", got)
	}

	// Next calendar day: stored count reads as 0, whatever its value.
	s.now = fixedClock(time.Date(2026, 1, 11, 1, 0, 0, 0, time.Local))
	if got := s.Count(); got != 0 {
		t.Errorf("Expected count 0 after day rollover, got %d", got)
	}

	// First increment of the new day starts from scratch.
	if got := s.Increment(); got != 1 {
		t.Errorf("Expected count 1 on new day, got %d", got)
	}
}

func TestMalformedStateReadsAsZero(t *testing.T) {
	kv := newMemKV()
	kv.data["chat_limit"] = "{not json"
	s := New(kv)

	if got := s.Count(); got != 0 {
		t.Errorf("Expected malformed state to read as 0, got %d", got)
	}
}

func TestSignedRaisesLimitPermanently(t *testing.T) {
	s := New(newMemKV())

	if s.Signed() {
		t.Error("Fresh store should not be signed")
	}
	if got := s.Limit(); got != FreeLimit {
		t.Errorf("Expected free limit %d, got %d", FreeLimit, got)
	}

	s.MarkSigned()
	if !s.Signed() {
		t.Error("Store should be signed after MarkSigned")
	}
	if got := s.Limit(); got != SignedLimit {
		t.Errorf("Expected signed limit %d, got %d", SignedLimit, got)
	}
}

func TestExhaustedAtLimit(t *testing.T) {
	s := New(newMemKV())

	for i := 0; i < FreeLimit; i++ {
		if s.Exhausted() {
			t.Fatalf("Store should not be exhausted at count %d", i)
		}
		s.Increment()
	}
	if !s.Exhausted() {
		t.Error("Store should be exhausted at the free limit")
	}
	if got := s.Remaining(); got != 0 {
		t.Errorf("Expected 0 remaining, got %d", got)
	}

	// Signing unlocks the higher ceiling with the same count.
	s.MarkSigned()
	if s.Exhausted() {
		t.Error("Signed store should not be exhausted below the signed limit")
	}
	if got := s.Remaining(); got != SignedLimit-FreeLimit {
		t.Errorf("Expected %d remaining after signing, got %d", SignedLimit-FreeLimit, got)
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	path := t.TempDir() + "/state.json"
	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("Failed to create FileKV: %v", err)
	}

	if _, ok := kv.Get("chat_signed"); ok {
		t.Error("Expected missing key on fresh store")
	}
	if err := kv.Set("chat_signed", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh handle over the same file sees the persisted value.
	kv2, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("Failed to reopen FileKV: %v", err)
	}
	v, ok := kv2.Get("chat_signed")
	if !ok || v != "true" {
		t.Errorf("Expected persisted value \"true\", got %q (present=%v)", v, ok)
	}
}

func TestQuotaSurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/state.json"
	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("Failed to create FileKV: %v", err)
	}

	s := New(kv)
	s.Increment()
	s.Increment()

	kv2, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("Failed to reopen FileKV: %v", err)
	}
	s2 := New(kv2)
	if got := s2.Count(); got != 2 {
		t.Errorf("Expected reopened count 2, got %d", got)
	}

	// Sanity-check the stored shape matches the documented schema.
	raw, ok := kv2.Get("chat_limit")
	if !ok {
		t.Fatal("Expected chat_limit key to be present")
	}
	var stored struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("Stored value is not valid JSON: %v", err)
	}
	if stored.Count != 2 {
		t.Errorf("Expected stored count 2, got %d", stored.Count)
	}
}
