package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deposit is a user's upgrade payment awaiting manual reconciliation.
// Transitions pending->approved (tier upgrade + referral commission) or
// pending->rejected (terminal, no balance effect). Once reviewed it is
// immutable except for the admin note.
type Deposit struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	TierTarget int             `gorm:"not null" json:"tier_target"`
	AmountUSD  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount_usd"`
	AmountNGN  decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"amount_ngn"`
	Method     string          `gorm:"size:10;not null" json:"method"` // crypto | bank
	ProofURL   string          `gorm:"size:512" json:"proof_url"`
	TxHash     string          `gorm:"size:200" json:"tx_hash"`
	Status     string          `gorm:"size:10;not null;index;default:'pending'" json:"status"`
	AdminNote  string          `gorm:"type:text" json:"admin_note"`
	CreatedAt  time.Time       `json:"created_at"`
	ReviewedAt *time.Time      `json:"reviewed_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Deposit) TableName() string { return "deposits" }
