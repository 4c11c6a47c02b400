package repository

import (
	"apexmine/internal/models"

	"gorm.io/gorm"
)

type FeePaymentRepository struct {
	db *gorm.DB
}

func NewFeePaymentRepository(db *gorm.DB) *FeePaymentRepository {
	return &FeePaymentRepository{db: db}
}

func (r *FeePaymentRepository) Create(p *models.WithdrawalFeePayment) error {
	return r.db.Create(p).Error
}

func (r *FeePaymentRepository) LockByID(tx *gorm.DB, id uint) (*models.WithdrawalFeePayment, error) {
	var p models.WithdrawalFeePayment
	if err := forUpdate(tx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *FeePaymentRepository) Update(tx *gorm.DB, p *models.WithdrawalFeePayment) error {
	return tx.Save(p).Error
}

// HasPending reports whether the user already has a fee payment awaiting
// review, to stop duplicate submissions.
func (r *FeePaymentRepository) HasPending(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WithdrawalFeePayment{}).
		Where("user_id = ? AND status = ?", userID, "pending").Count(&count).Error
	return count > 0, err
}

func (r *FeePaymentRepository) ListByUserID(userID uint) ([]models.WithdrawalFeePayment, error) {
	var list []models.WithdrawalFeePayment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *FeePaymentRepository) ListAll(status string, page, limit int) ([]models.WithdrawalFeePayment, int64, error) {
	q := r.db.Model(&models.WithdrawalFeePayment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.WithdrawalFeePayment
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
