package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MiningTier is a catalog row defining a plan's price, yield, duration
// and withdrawal fee. Created and edited only by an administrator.
type MiningTier struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	TierNumber       int             `gorm:"uniqueIndex;not null" json:"tier_number"`
	Name             string          `gorm:"size:50;not null" json:"name"`
	PriceUSD         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_usd"`
	DailyYieldUSD    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"earn_per_24h_usd"`
	DurationDays     int             `gorm:"not null" json:"duration_days"` // 0 = permanent
	WithdrawalFeeUSD decimal.Decimal `gorm:"type:decimal(10,2);not null;default:5" json:"withdrawal_fee_usd"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (MiningTier) TableName() string { return "mining_tiers" }

func (t *MiningTier) IsPermanent() bool { return t.DurationDays == 0 }
