package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralCommission is an immutable record of a commission credited to
// a referrer when their referee's paid-tier deposit is approved.
// Never reversed, even if the deposit is later disputed.
type ReferralCommission struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReferrerID    uint            `gorm:"not null;index" json:"referrer_id"`
	RefereeID     uint            `gorm:"not null;index" json:"referee_id"`
	DepositID     uint            `gorm:"not null;index" json:"deposit_id"`
	CommissionPct decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_pct"`
	AmountUSD     decimal.Decimal `gorm:"type:decimal(12,6);not null" json:"amount_usd"`
	CreatedAt     time.Time       `json:"created_at"`

	Referrer User    `gorm:"foreignKey:ReferrerID" json:"-"`
	Referee  User    `gorm:"foreignKey:RefereeID" json:"-"`
	Deposit  Deposit `gorm:"foreignKey:DepositID" json:"-"`
}

func (ReferralCommission) TableName() string { return "referral_commissions" }
