package repository

import (
	"apexmine/internal/domain"
	"apexmine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlatformStats is the aggregate snapshot shown on the admin dashboard.
type PlatformStats struct {
	TotalUsers         int64           `json:"totalUsers"`
	ActiveMiners       int64           `json:"activeMiners"`
	PendingDeposits    int64           `json:"pendingDeposits"`
	PendingWithdrawals int64           `json:"pendingWithdrawals"`
	PendingFeePayments int64           `json:"pendingFeePayments"`
	TotalBalanceUSD    decimal.Decimal `json:"totalBalanceUsd"`
	TotalEarnedUSD     decimal.Decimal `json:"totalEarnedUsd"`
	TotalWithdrawnUSD  decimal.Decimal `json:"totalWithdrawnUsd"`
	TotalDepositedUSD  decimal.Decimal `json:"totalDepositedUsd"`
}

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Platform() (*PlatformStats, error) {
	stats := &PlatformStats{
		TotalBalanceUSD:   decimal.Zero,
		TotalEarnedUSD:    decimal.Zero,
		TotalWithdrawnUSD: decimal.Zero,
		TotalDepositedUSD: decimal.Zero,
	}

	if err := r.db.Model(&models.User{}).Where("role = ?", domain.RoleUser).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.MiningSession{}).Where("is_active = ?", true).
		Distinct("user_id").Count(&stats.ActiveMiners).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Deposit{}).Where("status = ?", domain.StatusPending).Count(&stats.PendingDeposits).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Withdrawal{}).Where("status = ?", domain.StatusPending).Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.WithdrawalFeePayment{}).Where("status = ?", domain.StatusPending).Count(&stats.PendingFeePayments).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := r.db.Select("balance", "total_earned").Where("role = ?", domain.RoleUser).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		stats.TotalBalanceUSD = stats.TotalBalanceUSD.Add(u.Balance)
		stats.TotalEarnedUSD = stats.TotalEarnedUSD.Add(u.TotalEarned)
	}

	var withdrawals []models.Withdrawal
	if err := r.db.Select("amount_usd").Where("status = ?", domain.StatusApproved).Find(&withdrawals).Error; err != nil {
		return nil, err
	}
	for _, w := range withdrawals {
		stats.TotalWithdrawnUSD = stats.TotalWithdrawnUSD.Add(w.AmountUSD)
	}

	var deposits []models.Deposit
	if err := r.db.Select("amount_usd").Where("status = ?", domain.StatusApproved).Find(&deposits).Error; err != nil {
		return nil, err
	}
	for _, d := range deposits {
		stats.TotalDepositedUSD = stats.TotalDepositedUSD.Add(d.AmountUSD)
	}

	return stats, nil
}
