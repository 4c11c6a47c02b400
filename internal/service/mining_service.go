package service

import (
	"errors"
	"time"

	"apexmine/internal/domain"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MiningService runs the accrual engine. A manual claim and the daily
// sweep share one credit routine, so an account is paid at most once
// per 24h window no matter which path reaches it first.
type MiningService struct {
	db       *gorm.DB
	accounts *repository.AccountRepository
	tiers    *repository.TierRepository
	sessions *repository.SessionRepository
	earnings *repository.EarningRepository
	settings *repository.SettingRepository
	notifier *NotificationService
	log      *logger.Logger
}

func NewMiningService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	tiers *repository.TierRepository,
	sessions *repository.SessionRepository,
	earnings *repository.EarningRepository,
	settings *repository.SettingRepository,
	notifier *NotificationService,
	log *logger.Logger,
) *MiningService {
	return &MiningService{
		db:       db,
		accounts: accounts,
		tiers:    tiers,
		sessions: sessions,
		earnings: earnings,
		settings: settings,
		notifier: notifier,
		log:      log,
	}
}

// MiningStatus is the dashboard snapshot for the mining screen.
type MiningStatus struct {
	Tier              int             `json:"tier"`
	TierName          string          `json:"tier_name"`
	DailyYieldUSD     decimal.Decimal `json:"daily_yield_usd"`
	BalanceUSD        decimal.Decimal `json:"balance_usd"`
	TotalEarnedUSD    decimal.Decimal `json:"total_earned_usd"`
	CanClaim          bool            `json:"can_claim"`
	CooldownRemaining int64           `json:"cooldown_remaining_seconds"`
	LastMinedAt       *time.Time      `json:"last_mined_at"`
	TierExpiry        *time.Time      `json:"tier_expiry"`
}

// Claim credits one day's yield to the caller. Fails with a
// CooldownError inside the 24h window. An expired paid tier is
// downgraded first and the claim proceeds at the free tier's yield.
func (s *MiningService) Claim(userID uint) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		u, err := s.accounts.LockByID(tx, userID)
		if err != nil {
			return err
		}
		now := time.Now()
		if remaining := u.MiningCooldownRemaining(now); remaining > 0 {
			return &domain.CooldownError{Remaining: remaining}
		}
		if _, err := s.repairTier(tx, u, now); err != nil {
			return err
		}
		amount, err = s.credit(tx, u, now)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	if nerr := s.notifier.NotifyMiningReward(userID, amount); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", userID).Warn("mining reward notification failed")
	}
	return amount, nil
}

// Status never mutates; an expired tier is reported at the free tier's
// numbers without writing the downgrade (the next claim or sweep does).
func (s *MiningService) Status(userID uint) (*MiningStatus, error) {
	u, err := s.accounts.GetByID(userID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	effectiveTier := u.Tier
	var expiry *time.Time
	if u.TierExpired(now) {
		effectiveTier = domain.FreeTier
	} else {
		expiry = u.TierExpiry
	}
	tier, err := s.tiers.GetByNumber(effectiveTier)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	st := &MiningStatus{
		Tier:           effectiveTier,
		BalanceUSD:     u.Balance,
		TotalEarnedUSD: u.TotalEarned,
		LastMinedAt:    u.LastMinedAt,
		TierExpiry:     expiry,
	}
	if tier != nil {
		st.TierName = tier.Name
		st.DailyYieldUSD = tier.DailyYieldUSD
	} else {
		st.DailyYieldUSD = domain.FallbackDailyYield
	}
	remaining := u.MiningCooldownRemaining(now)
	st.CanClaim = remaining == 0
	st.CooldownRemaining = int64(remaining.Seconds())
	return st, nil
}

// DistributeDaily sweeps every active account once. Accounts whose last
// credit is inside the current 24h window are skipped, so a user who
// claimed manually is not paid twice. Returns credited and skipped
// counts.
func (s *MiningService) DistributeDaily() (credited, skipped int, err error) {
	type expiredNote struct {
		userID   uint
		tierName string
	}
	var expiredNotes []expiredNote
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users, err := s.accounts.LockActive(tx)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range users {
			u := &users[i]
			if u.IsAdmin() {
				skipped++
				continue
			}
			oldTier := u.Tier
			downgraded, derr := s.repairTier(tx, u, now)
			if derr != nil {
				return derr
			}
			if downgraded {
				name := "Your plan"
				if t, terr := s.tiers.GetByNumber(oldTier); terr == nil {
					name = t.Name
				}
				expiredNotes = append(expiredNotes, expiredNote{userID: u.ID, tierName: name})
			}
			if u.MiningCooldownRemaining(now) > 0 {
				skipped++
				continue
			}
			if _, err := s.credit(tx, u, now); err != nil {
				return err
			}
			credited++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	for _, n := range expiredNotes {
		if nerr := s.notifier.NotifyTierExpired(n.userID, n.tierName); nerr != nil {
			s.log.WithError(nerr).WithField("user_id", n.userID).Warn("tier expiry notification failed")
		}
	}
	s.log.WithField("credited", credited).WithField("skipped", skipped).Info("daily distribution complete")
	return credited, skipped, nil
}

// credit applies one day's yield from the catalog to a row-locked user
// and appends the audit row. The catalog is read inside the same
// transaction so a mid-sweep tier edit cannot split the batch.
func (s *MiningService) credit(tx *gorm.DB, u *models.User, now time.Time) (decimal.Decimal, error) {
	yield := domain.FallbackDailyYield
	tier, err := s.tiers.GetByNumber(u.Tier)
	if err == nil {
		yield = tier.DailyYieldUSD
	} else if !errors.Is(err, domain.ErrNotFound) {
		return decimal.Zero, err
	}
	if err := s.accounts.CreditEarning(tx, u, yield, now); err != nil {
		return decimal.Zero, err
	}
	if err := s.earnings.Create(tx, &models.MiningEarning{
		UserID:    u.ID,
		Tier:      u.Tier,
		AmountUSD: yield,
		MinedAt:   now,
	}); err != nil {
		return decimal.Zero, err
	}
	return yield, nil
}

// repairTier normalizes a row-locked account before a credit. An
// expired paid tier is downgraded, a paid tier with no active session
// is reset to the free tier, and a stale expiry left on the free tier
// is cleared. Reports whether the account lost its paid tier.
func (s *MiningService) repairTier(tx *gorm.DB, u *models.User, now time.Time) (bool, error) {
	if u.Tier == domain.FreeTier {
		if u.TierExpiry != nil {
			return false, s.accounts.SetTier(tx, u, domain.FreeTier, nil)
		}
		return false, nil
	}
	if u.TierExpired(now) {
		return true, s.downgrade(tx, u)
	}
	if _, err := s.sessions.GetActiveByUserID(tx, u.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, s.downgrade(tx, u)
		}
		return false, err
	}
	return false, nil
}

// downgrade drops an expired paid tier back to the free tier and closes
// its session. Balance and earned totals are untouched.
func (s *MiningService) downgrade(tx *gorm.DB, u *models.User) error {
	if err := s.accounts.SetTier(tx, u, domain.FreeTier, nil); err != nil {
		return err
	}
	return s.sessions.DeactivateForUser(tx, u.ID)
}

// Earnings lists the caller's accrual history, newest first.
func (s *MiningService) Earnings(userID uint, limit int) ([]models.MiningEarning, error) {
	return s.earnings.ListByUserID(userID, limit)
}

// ShouldRunSweep reports whether today's UTC distribution has not yet
// run, so a restarted process does not re-credit the same day.
func (s *MiningService) ShouldRunSweep(now time.Time) (bool, error) {
	today := now.UTC().Format("2006-01-02")
	last, err := s.settings.Get(domain.SettingLastSweepDay)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return last != today, nil
}

// MarkSweepDone records the UTC day of the sweep that just ran.
func (s *MiningService) MarkSweepDone(now time.Time) error {
	return s.settings.Set(domain.SettingLastSweepDay, now.UTC().Format("2006-01-02"))
}
