package repository

import (
	"apexmine/internal/models"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(w *models.Withdrawal) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := r.db.First(&w, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WithdrawalRepository) LockByID(tx *gorm.DB, id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := forUpdate(tx).First(&w, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WithdrawalRepository) GetByTransactionID(userID uint, transactionID string) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Where("user_id = ? AND transaction_id = ?", userID, transactionID).First(&w).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// TransactionIDExists reports whether a transaction id is already taken,
// so generation can re-roll instead of colliding at insert.
func (r *WithdrawalRepository) TransactionIDExists(transactionID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Withdrawal{}).Where("transaction_id = ?", transactionID).Count(&count).Error
	return count > 0, err
}

func (r *WithdrawalRepository) Update(tx *gorm.DB, w *models.Withdrawal) error {
	return tx.Save(w).Error
}

func (r *WithdrawalRepository) ListByUserID(userID uint) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *WithdrawalRepository) ListAll(status string, page, limit int) ([]models.Withdrawal, int64, error) {
	q := r.db.Model(&models.Withdrawal{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.Withdrawal
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
