// Package quota tracks the visitor's local daily question allowance.
//
// State lives in a small key-value store on the client side (the Go
// analogue of browser localStorage): a daily counter under "chat_limit"
// and a permanent "chat_signed" flag set after the lead form is
// completed. The counter implicitly resets on calendar-day rollover; a
// stored count from a previous day is read as 0 without writing.
package quota

import (
	"encoding/json"
	"time"
)

// Daily question limits. Signing the lead form permanently raises the
// ceiling from FreeLimit to SignedLimit; it is never lowered again.
const (
	FreeLimit   = 3
	SignedLimit = 6
)

// Persisted keys.
const (
	countKey  = "chat_limit"
	signedKey = "chat_signed"
)

// KV is the minimal persistence contract. Both operations are best
// effort on the read side: a missing or malformed value reads as zero
// state rather than an error.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// dailyCount is the JSON shape stored under countKey.
type dailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Store reads and mutates the visitor's quota state through an injected
// KV handle. A single process is the concurrency boundary, matching a
// single browser tab; concurrent processes sharing one KV file race,
// which is accepted.
type Store struct {
	kv  KV
	now func() time.Time
}

// New creates a quota store over the given KV.
func New(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// todayKey returns the local calendar day key.
func (s *Store) todayKey() string {
	return s.now().Format("2006-01-02")
}

// Count returns today's question count. A stored count from any other
// day reads as 0; the stale record is left in place until the next
// increment overwrites it.
func (s *Store) Count() int {
	raw, ok := s.kv.Get(countKey)
	if !ok {
		return 0
	}
	var dc dailyCount
	if err := json.Unmarshal([]byte(raw), &dc); err != nil {
		return 0
	}
	if dc.Date != s.todayKey() {
		return 0
	}
	if dc.Count < 0 {
		return 0
	}
	return dc.Count
}

// Increment adds one question to today's count and returns the new count.
func (s *Store) Increment() int {
	return s.save(s.Count() + 1)
}

// Rollback undoes one increment, flooring at 0. Used as error
// compensation so a failed relay call doesn't cost the visitor a slot.
func (s *Store) Rollback() int {
	count := s.Count() - 1
	if count < 0 {
		count = 0
	}
	return s.save(count)
}

func (s *Store) save(count int) int {
	raw, err := json.Marshal(dailyCount{Date: s.todayKey(), Count: count})
	if err != nil {
		return count
	}
	// Persistence is best effort: an unwritable KV degrades to
	// session-only counting, same as a browser with storage disabled.
	_ = s.kv.Set(countKey, string(raw))
	return count
}

// Signed reports whether the visitor has completed the lead form.
func (s *Store) Signed() bool {
	v, ok := s.kv.Get(signedKey)
	return ok && v == "true"
}

// MarkSigned permanently records lead-form completion.
func (s *Store) MarkSigned() {
	_ = s.kv.Set(signedKey, "true")
}

// Limit returns the visitor's current daily ceiling.
func (s *Store) Limit() int {
	if s.Signed() {
		return SignedLimit
	}
	return FreeLimit
}

// Remaining returns how many questions are left today, flooring at 0.
func (s *Store) Remaining() int {
	rem := s.Limit() - s.Count()
	if rem < 0 {
		return 0
	}
	return rem
}

// Exhausted reports whether the visitor has used today's allowance.
func (s *Store) Exhausted() bool {
	return s.Count() >= s.Limit()
}
