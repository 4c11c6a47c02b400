package repository

import (
	"apexmine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// Create appends an immutable commission record.
func (r *CommissionRepository) Create(tx *gorm.DB, c *models.ReferralCommission) error {
	return tx.Create(c).Error
}

// ExistsForDeposit guards against paying the same deposit's commission
// twice if the best-effort step is retried.
func (r *CommissionRepository) ExistsForDeposit(depositID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ReferralCommission{}).Where("deposit_id = ?", depositID).Count(&count).Error
	return count > 0, err
}

func (r *CommissionRepository) ListByReferrerID(referrerID uint, limit int) ([]models.ReferralCommission, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []models.ReferralCommission
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("Referee").Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// TotalForReferrer sums all commissions a referrer has earned.
func (r *CommissionRepository) TotalForReferrer(referrerID uint) (decimal.Decimal, error) {
	var list []models.ReferralCommission
	if err := r.db.Select("amount_usd").Where("referrer_id = ?", referrerID).Find(&list).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range list {
		total = total.Add(c.AmountUSD)
	}
	return total, nil
}

// CountReferrals counts accounts signed up under the referrer.
func (r *CommissionRepository) CountReferrals(referrerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("referred_by_id = ?", referrerID).Count(&count).Error
	return count, err
}
