package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	l := NewRateLimiter(3, time.Hour)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d denied under limit", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("request over limit allowed")
	}
	// Other keys are unaffected.
	if !l.Allow("5.6.7.8") {
		t.Error("separate key denied")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	l := NewRateLimiter(1, 10*time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("first request denied")
	}
	if l.Allow("k") {
		t.Fatal("second request allowed in window")
	}
	time.Sleep(15 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request denied after window reset")
	}
}
