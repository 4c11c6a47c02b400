package models

import (
	"time"

	"apexmine/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName     string `gorm:"size:100" json:"full_name"`
	Phone        string `gorm:"size:20" json:"phone"`
	Country      string `gorm:"size:3;default:'NG'" json:"country"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:20;not null;index;default:'USER'" json:"role"` // USER | ADMIN

	// Mining & balance
	Tier        int             `gorm:"not null;default:1;index" json:"tier"`
	TierExpiry  *time.Time      `json:"tier_expiry"` // nil = permanent (always true for tier 1)
	Balance     decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance_usd"`
	TotalEarned decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"total_earned"`
	LastMinedAt *time.Time      `json:"last_mined_at"`
	Trc20Wallet string          `gorm:"size:50" json:"trc20_wallet"`

	// Withdrawal gating
	WithdrawalFeePaid bool `gorm:"default:false" json:"withdrawal_fee_paid"`

	// Referrals
	ReferralCode     string          `gorm:"uniqueIndex;size:8" json:"referral_code"`
	ReferredByID     *uint           `gorm:"index" json:"referred_by_id"`
	ReferralEarnings decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"referral_earnings"`

	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferredBy *User `gorm:"foreignKey:ReferredByID" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// TierExpired reports whether a paid tier's window has lapsed.
// Tier 1 never expires regardless of TierExpiry.
func (u *User) TierExpired(now time.Time) bool {
	if u.Tier == domain.FreeTier || u.TierExpiry == nil {
		return false
	}
	return now.After(*u.TierExpiry)
}

// MiningCooldownRemaining returns how long until the next manual claim,
// zero when claiming is allowed.
func (u *User) MiningCooldownRemaining(now time.Time) time.Duration {
	if u.LastMinedAt == nil {
		return 0
	}
	elapsed := now.Sub(*u.LastMinedAt)
	if elapsed >= domain.ClaimCooldown {
		return 0
	}
	return domain.ClaimCooldown - elapsed
}

// CanPayWithdrawalFee: paid tiers may pay immediately after upgrade;
// tier 1 must first mine up to the gate balance.
func (u *User) CanPayWithdrawalFee() bool {
	if u.Tier == domain.FreeTier {
		return u.Balance.GreaterThanOrEqual(domain.FreeTierWithdrawGate)
	}
	return u.Tier > domain.FreeTier
}

// CanWithdraw: the one-time fee must be paid; tier 1 additionally needs
// the gate balance.
func (u *User) CanWithdraw() bool {
	if !u.WithdrawalFeePaid {
		return false
	}
	if u.Tier == domain.FreeTier {
		return u.Balance.GreaterThanOrEqual(domain.FreeTierWithdrawGate)
	}
	return true
}
