package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

const (
	MethodCrypto = "crypto"
	MethodBank   = "bank"
)

const (
	NotifTypeMining     = "mining"
	NotifTypeDeposit    = "deposit"
	NotifTypeWithdrawal = "withdrawal"
	NotifTypeTier       = "tier"
	NotifTypeReferral   = "referral"
	NotifTypeSystem     = "system"
)

// System setting keys. Settings are read into a snapshot before an
// operation starts, never consulted mid-transaction.
const (
	SettingCommissionPercent = "referral_commission_percent"
	SettingUsdToNgnRate      = "usd_to_ngn_rate"
	SettingUsdtWallet        = "platform_usdt_wallet"
	SettingBankName          = "platform_bank_name"
	SettingAccountName       = "platform_account_name"
	SettingAccountNumber     = "platform_account_number"
	SettingSupportURL        = "support_url"
	SettingLastSweepDay      = "last_distribution_day"
)

// FreeTier is the permanent tier every account starts on and falls back to.
const FreeTier = 1

// ClaimCooldown is the minimum gap between two manual mining claims.
const ClaimCooldown = 24 * time.Hour

var (
	// MinWithdrawalUSD is the floor for any withdrawal request.
	MinWithdrawalUSD = decimal.NewFromInt(10)
	// MaxWithdrawalUSD is the per-request ceiling.
	MaxWithdrawalUSD = decimal.NewFromInt(10000)
	// FreeTierWithdrawGate: tier-1 accounts need this balance before the
	// fee payment and withdrawals unlock.
	FreeTierWithdrawGate = decimal.NewFromInt(100)
	// FallbackWithdrawalFee applies when the tier catalog lookup fails.
	FallbackWithdrawalFee = decimal.NewFromInt(10)
	// FallbackDailyYield applies when an account's tier has no catalog row.
	FallbackDailyYield = decimal.NewFromInt(1)
	// DefaultCommissionPercent of the deposit amount paid to the referrer.
	DefaultCommissionPercent = decimal.NewFromInt(10)
	// DefaultUsdToNgn is used until an admin sets the exchange rate.
	DefaultUsdToNgn = decimal.NewFromInt(1600)
)
