// Package nonce tracks used single-use tokens (OTP verification links).
//
// The primary store is Redis: one SETNX key per token, hashed so the raw JWT
// never lands in the keyspace, expiring with the token itself. That makes
// "used exactly once" hold across restarts and across replicas.
//
// When Redis is unavailable the store degrades to a process-local set capped
// at maxFallbackEntries — the same guarantee the old deployment had, kept only
// as a fallback because replay protection that dies with the process is better
// than none.
package nonce

import (
	"sync"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/cache"
	"github.com/shashiranjanraj/villageangel/pkg/crypt"
)

const (
	keyPrefix          = "villageangel:otp:used:"
	maxFallbackEntries = 1000
)

// Store answers "has this token been used?" and records uses.
type Store struct {
	mu       sync.Mutex
	fallback map[string]struct{}
}

// NewStore creates an isolated nonce store. Tests use this; production
// code shares Default so every caller sees the same fallback set.
func NewStore() *Store {
	return &Store{fallback: make(map[string]struct{})}
}

var (
	defaultStore *Store
	defaultOnce  sync.Once
)

// Default returns the process-wide shared store.
func Default() *Store {
	defaultOnce.Do(func() { defaultStore = NewStore() })
	return defaultStore
}

func key(token string) string {
	return keyPrefix + crypt.Hash(token)
}

// Used reports whether token has already been consumed.
func (s *Store) Used(token string) bool {
	var marker bool
	if cache.Available() {
		return cache.Get(key(token), &marker)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fallback[key(token)]
	return ok
}

// Mark records token as consumed. ttl should match the token's remaining
// lifetime; once the token has expired the signature check rejects it anyway,
// so the marker has no reason to outlive it.
func (s *Store) Mark(token string, ttl time.Duration) error {
	if cache.Available() {
		_, err := cache.SetNX(key(token), true, ttl)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Cap the fallback set the way the old in-memory implementation did.
	if len(s.fallback) >= maxFallbackEntries {
		s.fallback = make(map[string]struct{})
	}
	s.fallback[key(token)] = struct{}{}
	return nil
}

// Claim atomically checks and marks in one step. Returns true when the caller
// won the claim (token unused until now), false on replay.
func (s *Store) Claim(token string, ttl time.Duration) bool {
	if cache.Available() {
		ok, err := cache.SetNX(key(token), true, ttl)
		if err == nil {
			return ok
		}
		// Redis dropped mid-flight: fall through to the local set.
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(token)
	if _, used := s.fallback[k]; used {
		return false
	}
	if len(s.fallback) >= maxFallbackEntries {
		s.fallback = make(map[string]struct{})
	}
	s.fallback[k] = struct{}{}
	return true
}

// Purge empties the fallback set. Wired to the hourly scheduler; Redis keys
// expire on their own.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = make(map[string]struct{})
}

// FallbackLen reports the size of the process-local set (for tests and the
// scheduler log line).
func (s *Store) FallbackLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fallback)
}
