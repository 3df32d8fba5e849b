package token_test

import (
	"testing"
	"time"

	"github.com/shashiranjanraj/villageangel/pkg/token"
)

func TestAccessRoundTrip(t *testing.T) {
	tok, err := token.GenerateAccess(42, "buyer@example.com", "USER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := token.ValidateAccess(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "buyer@example.com" || claims.Role != "USER" {
		t.Errorf("claims = %+v", claims)
	}

	exp := claims.ExpiresAt.Time
	if until := time.Until(exp); until > token.DefaultAccessTTL || until < token.DefaultAccessTTL-time.Minute {
		t.Errorf("access expiry %v out of expected window", until)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	tok, err := token.GenerateAccess(1, "a@b.c", "USER")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := token.ValidateRefresh(tok); err == nil {
		t.Fatal("access token accepted by refresh validator")
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	tok, err := token.GenerateRefresh(7, "x@y.z", "ADMIN")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := token.ValidateRefresh(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "ADMIN" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestOTPCodeRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, code, err := token.GenerateOTP("neha", "n@e.ha", "USER", token.PurposeActivation)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if code < 100000 || code > 999999 {
			t.Fatalf("code %d is not 6 digits", code)
		}
	}
}

func TestOTPPurposeEnforced(t *testing.T) {
	tok, code, err := token.GenerateOTP("neha", "n@e.ha", "USER", token.PurposeActivation)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := token.ValidateOTP(tok, token.PurposeActivation)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Code != code || claims.Email != "n@e.ha" {
		t.Errorf("claims = %+v", claims)
	}

	// An activation token must not pass the forgot-password validator:
	// different purpose, different secret.
	if _, err := token.ValidateOTP(tok, token.PurposeForgotPassword); err == nil {
		t.Fatal("activation token accepted for forgot-password")
	}
}

func TestOTPClaimsRemainingTracksExpiry(t *testing.T) {
	tok, _, err := token.GenerateOTP("neha", "n@e.ha", "USER", token.PurposeForgotPassword)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := token.ValidateOTP(tok, token.PurposeForgotPassword)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	left := claims.Remaining()
	if left > token.DefaultResetOTPTTL || left < token.DefaultResetOTPTTL-time.Minute {
		t.Errorf("remaining = %v, want about %v", left, token.DefaultResetOTPTTL)
	}

	expired := &token.OTPClaims{}
	if expired.Remaining() != 0 {
		t.Errorf("remaining without expiry = %v, want 0", expired.Remaining())
	}
}

func TestResetTokenRoundTrip(t *testing.T) {
	tok, err := token.GenerateReset("neha", "n@e.ha")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := token.ValidateReset(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "n@e.ha" || claims.Code != 0 {
		t.Errorf("claims = %+v", claims)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := token.HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatal("password stored in plain text")
	}
	if !token.CheckPassword(hash, "s3cret!") {
		t.Error("correct password rejected")
	}
	if token.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
