package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Withdrawal is a payout request. The balance is NOT debited at request
// time; the debit happens at admin approval after re-validating funds.
type Withdrawal struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	AmountUSD decimal.Decimal `gorm:"type:decimal(12,8);not null" json:"amount_usd"`
	AmountNGN decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"amount_ngn"`
	Method    string          `gorm:"size:20;not null;default:'crypto'" json:"method"` // crypto | bank

	// Crypto destination
	WalletAddress string `gorm:"size:200" json:"wallet_address"`
	// Bank destination
	BankName      string `gorm:"size:100" json:"bank_name"`
	AccountNumber string `gorm:"size:20" json:"account_number"`
	AccountName   string `gorm:"size:200" json:"account_name"`

	Status        string `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending, processing, approved, rejected
	TransactionID string `gorm:"size:100;uniqueIndex;not null" json:"transaction_id"`
	TxHash        string `gorm:"size:200" json:"tx_hash"`
	AdminNote     string `gorm:"type:text" json:"admin_note"`

	CreatedAt   time.Time      `json:"created_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string { return "withdrawals" }

// WithdrawalFeePayment is the one-time fee a user must pay before
// withdrawals unlock. Approval flips users.withdrawal_fee_paid.
type WithdrawalFeePayment struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	Tier         int             `gorm:"not null" json:"tier"`
	FeeAmountUSD decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"fee_amount_usd"`
	Method       string          `gorm:"size:20;not null" json:"method"`
	ProofURL     string          `gorm:"size:512" json:"proof_url"`
	TxHash       string          `gorm:"size:200" json:"tx_hash"`
	Status       string          `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	ReviewedAt   *time.Time      `json:"reviewed_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (WithdrawalFeePayment) TableName() string { return "withdrawal_fee_payments" }
