package bankverify

import (
	"context"
	"testing"
	"time"
)

func TestOfflineResolveIsDeterministic(t *testing.T) {
	c := New("", "", time.Second)

	r1, err := c.Resolve(context.Background(), "0123456789", "044")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !r1.Offline {
		t.Error("expected offline result without a secret key")
	}
	if r1.AccountName == "" {
		t.Error("empty account name")
	}
	r2, err := c.Resolve(context.Background(), "0123456789", "044")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if r1.AccountName != r2.AccountName {
		t.Errorf("same account resolved to %q then %q", r1.AccountName, r2.AccountName)
	}
}

func TestBanksHaveCodes(t *testing.T) {
	banks := Banks()
	if len(banks) == 0 {
		t.Fatal("empty bank list")
	}
	seen := make(map[string]bool)
	for _, b := range banks {
		if b.Name == "" || b.Code == "" {
			t.Errorf("bank %+v missing name or code", b)
		}
		if seen[b.Code] {
			t.Errorf("duplicate bank code %s", b.Code)
		}
		seen[b.Code] = true
	}
}
