package nonce_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/nonce"
)

// Redis is not running in tests, so every case exercises the in-process
// fallback path.

func TestClaimIsSingleUse(t *testing.T) {
	s := nonce.NewStore()

	if !s.Claim("token-a", time.Minute) {
		t.Fatal("first claim should win")
	}
	if s.Claim("token-a", time.Minute) {
		t.Fatal("second claim should lose")
	}
	if !s.Used("token-a") {
		t.Error("claimed token not reported used")
	}
	if s.Used("token-b") {
		t.Error("unclaimed token reported used")
	}
}

func TestMarkThenUsed(t *testing.T) {
	s := nonce.NewStore()

	if err := s.Mark("token-x", time.Minute); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !s.Used("token-x") {
		t.Error("marked token not reported used")
	}
}

func TestFallbackCapClears(t *testing.T) {
	s := nonce.NewStore()

	for i := 0; i < 1000; i++ {
		if !s.Claim(fmt.Sprintf("tok-%d", i), time.Minute) {
			t.Fatalf("claim %d lost unexpectedly", i)
		}
	}
	if got := s.FallbackLen(); got != 1000 {
		t.Fatalf("fallback len = %d, want 1000", got)
	}

	// The set is full: the next claim resets it before inserting.
	if !s.Claim("tok-overflow", time.Minute) {
		t.Fatal("claim after cap should win")
	}
	if got := s.FallbackLen(); got != 1 {
		t.Errorf("fallback len after reset = %d, want 1", got)
	}

	// Old entries were forgotten — the documented trade-off of the cap.
	if s.Used("tok-0") {
		t.Error("entry survived the cap reset")
	}
}

func TestPurge(t *testing.T) {
	s := nonce.NewStore()
	s.Claim("a", time.Minute)
	s.Claim("b", time.Minute)

	s.Purge()
	if got := s.FallbackLen(); got != 0 {
		t.Errorf("fallback len after purge = %d, want 0", got)
	}
}
