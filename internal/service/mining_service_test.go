package service

import (
	"errors"
	"testing"
	"time"

	"apexmine/internal/domain"
	"apexmine/internal/models"
)

func TestClaimCreditsDailyYield(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t)

	amount, err := e.mining.Claim(u.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !amount.Equal(mustDec(t, "1.00")) {
		t.Errorf("tier 1 claim = %s, want 1.00", amount)
	}
	got := e.reload(t, u.ID)
	if !got.Balance.Equal(mustDec(t, "1.00")) {
		t.Errorf("balance = %s, want 1.00", got.Balance)
	}
	if !got.TotalEarned.Equal(mustDec(t, "1.00")) {
		t.Errorf("total_earned = %s, want 1.00", got.TotalEarned)
	}
	if got.LastMinedAt == nil {
		t.Fatal("last_mined_at not set")
	}

	earnings, err := e.mining.Earnings(u.ID, 10)
	if err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if len(earnings) != 1 {
		t.Fatalf("earnings rows = %d, want 1", len(earnings))
	}
	if earnings[0].Tier != 1 {
		t.Errorf("earning tier = %d, want 1", earnings[0].Tier)
	}
}

func TestClaimCooldownBoundary(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t)

	// 23h59m ago: still inside the window.
	e.setLastMined(t, u.ID, time.Now().Add(-24*time.Hour+time.Minute))
	_, err := e.mining.Claim(u.ID)
	if !errors.Is(err, domain.ErrCooldownActive) {
		t.Fatalf("claim inside window: err = %v, want cooldown", err)
	}
	var cdErr *domain.CooldownError
	if !errors.As(err, &cdErr) {
		t.Fatalf("err type = %T, want *CooldownError", err)
	}
	if cdErr.Remaining <= 0 || cdErr.Remaining > time.Minute {
		t.Errorf("remaining = %s, want (0, 1m]", cdErr.Remaining)
	}

	// Just past 24h: allowed.
	e.setLastMined(t, u.ID, time.Now().Add(-24*time.Hour-time.Second))
	if _, err := e.mining.Claim(u.ID); err != nil {
		t.Fatalf("claim after window: %v", err)
	}
}

func TestClaimDowngradesExpiredTier(t *testing.T) {
	e := newEnv(t)
	expired := time.Now().Add(-time.Hour)
	u := e.newUser(t, func(u *models.User) {
		u.Tier = 3
		u.TierExpiry = &expired
	})

	amount, err := e.mining.Claim(u.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	// Credited at the free tier's yield, not tier 3's.
	if !amount.Equal(mustDec(t, "1.00")) {
		t.Errorf("claim after expiry = %s, want 1.00", amount)
	}
	got := e.reload(t, u.ID)
	if got.Tier != domain.FreeTier {
		t.Errorf("tier = %d, want %d", got.Tier, domain.FreeTier)
	}
	if got.TierExpiry != nil {
		t.Errorf("tier_expiry = %v, want nil", got.TierExpiry)
	}
}

func TestFreeTierNeverExpires(t *testing.T) {
	e := newEnv(t)
	past := time.Now().Add(-48 * time.Hour)
	u := e.newUser(t, func(u *models.User) {
		u.TierExpiry = &past // stale leftover; tier 1 must ignore it
	})

	if _, err := e.mining.Claim(u.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	got := e.reload(t, u.ID)
	if got.Tier != domain.FreeTier {
		t.Errorf("tier = %d, want %d", got.Tier, domain.FreeTier)
	}
	if got.TierExpiry != nil {
		t.Errorf("tier_expiry = %v, want nil after claim", got.TierExpiry)
	}
}

func TestDistributeDailySkipsRecentClaims(t *testing.T) {
	e := newEnv(t)
	claimed := e.newUser(t)
	idle := e.newUser(t)
	e.setLastMined(t, claimed.ID, time.Now().Add(-time.Hour))

	credited, skipped, err := e.mining.DistributeDaily()
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if credited != 1 {
		t.Errorf("credited = %d, want 1", credited)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if got := e.reload(t, claimed.ID); !got.Balance.IsZero() {
		t.Errorf("recently claimed balance = %s, want 0", got.Balance)
	}
	if got := e.reload(t, idle.ID); !got.Balance.Equal(mustDec(t, "1.00")) {
		t.Errorf("idle balance = %s, want 1.00", got.Balance)
	}
}

func TestDistributeDailyPaysTierYield(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t)
	future := time.Now().Add(7 * 24 * time.Hour)
	e.grantTier(t, u.ID, 2, &future)

	if _, _, err := e.mining.DistributeDaily(); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if got := e.reload(t, u.ID); !got.Balance.Equal(mustDec(t, "50.00")) {
		t.Errorf("tier 2 sweep credit = %s, want 50.00", got.Balance)
	}
}

func TestDistributeDailyResetsPaidTierWithoutSession(t *testing.T) {
	e := newEnv(t)
	// A paid tier with no session row cannot have come from a deposit
	// approval; the sweep repairs it to the free tier.
	future := time.Now().Add(7 * 24 * time.Hour)
	u := e.newUser(t, func(u *models.User) {
		u.Tier = 3
		u.TierExpiry = &future
	})

	if _, _, err := e.mining.DistributeDaily(); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	got := e.reload(t, u.ID)
	if got.Tier != domain.FreeTier {
		t.Errorf("tier = %d, want %d", got.Tier, domain.FreeTier)
	}
	if !got.Balance.Equal(mustDec(t, "1.00")) {
		t.Errorf("balance = %s, want 1.00 (free tier yield)", got.Balance)
	}
}

func TestDistributeDailyDowngradesThenCreditsOnce(t *testing.T) {
	e := newEnv(t)
	expired := time.Now().Add(-time.Minute)
	u := e.newUser(t, func(u *models.User) {
		u.Tier = 4
		u.TierExpiry = &expired
	})

	credited, _, err := e.mining.DistributeDaily()
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if credited != 1 {
		t.Errorf("credited = %d, want 1", credited)
	}
	got := e.reload(t, u.ID)
	if got.Tier != domain.FreeTier {
		t.Errorf("tier = %d, want %d", got.Tier, domain.FreeTier)
	}
	// Single credit at the downgraded tier's yield.
	if !got.Balance.Equal(mustDec(t, "1.00")) {
		t.Errorf("balance = %s, want 1.00", got.Balance)
	}
	earnings, _ := e.mining.Earnings(u.ID, 10)
	if len(earnings) != 1 {
		t.Errorf("earning rows = %d, want 1", len(earnings))
	}
}

func TestSweepDayGuard(t *testing.T) {
	e := newEnv(t)
	now := time.Now()

	due, err := e.mining.ShouldRunSweep(now)
	if err != nil {
		t.Fatalf("should run: %v", err)
	}
	if !due {
		t.Fatal("first sweep of the day should be due")
	}
	if err := e.mining.MarkSweepDone(now); err != nil {
		t.Fatalf("mark done: %v", err)
	}
	due, err = e.mining.ShouldRunSweep(now)
	if err != nil {
		t.Fatalf("should run: %v", err)
	}
	if due {
		t.Fatal("sweep should not be due twice on the same day")
	}
	due, err = e.mining.ShouldRunSweep(now.Add(24 * time.Hour))
	if err != nil {
		t.Fatalf("should run: %v", err)
	}
	if !due {
		t.Fatal("next day's sweep should be due")
	}
}

func TestMiningStatusReportsCooldown(t *testing.T) {
	e := newEnv(t)
	u := e.newUser(t)
	e.setLastMined(t, u.ID, time.Now().Add(-time.Hour))

	st, err := e.mining.Status(u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.CanClaim {
		t.Error("can_claim = true inside cooldown")
	}
	if st.CooldownRemaining <= 0 {
		t.Errorf("cooldown_remaining = %d, want > 0", st.CooldownRemaining)
	}
	if st.Tier != 1 {
		t.Errorf("tier = %d, want 1", st.Tier)
	}
	if !st.DailyYieldUSD.Equal(mustDec(t, "1.00")) {
		t.Errorf("daily yield = %s, want 1.00", st.DailyYieldUSD)
	}
}

func TestMiningStatusExpiredTierReadsFree(t *testing.T) {
	e := newEnv(t)
	expired := time.Now().Add(-time.Hour)
	u := e.newUser(t, func(u *models.User) {
		u.Tier = 5
		u.TierExpiry = &expired
	})

	st, err := e.mining.Status(u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Tier != domain.FreeTier {
		t.Errorf("status tier = %d, want %d", st.Tier, domain.FreeTier)
	}
	// Status is read-only: the stored row still says tier 5.
	if got := e.reload(t, u.ID); got.Tier != 5 {
		t.Errorf("stored tier = %d, want 5 (status must not write)", got.Tier)
	}
}
