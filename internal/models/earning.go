package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MiningEarning is an immutable audit row for every yield credit.
// Append-only; never updated or deleted.
type MiningEarning struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Tier      int             `gorm:"not null" json:"tier"`
	AmountUSD decimal.Decimal `gorm:"type:decimal(12,8);not null" json:"amount_usd"`
	MinedAt   time.Time       `gorm:"index" json:"mined_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (MiningEarning) TableName() string { return "mining_earnings" }
