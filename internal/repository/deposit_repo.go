package repository

import (
	"apexmine/internal/models"

	"gorm.io/gorm"
)

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) Create(d *models.Deposit) error {
	return r.db.Create(d).Error
}

func (r *DepositRepository) GetByID(id uint) (*models.Deposit, error) {
	var d models.Deposit
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// LockByID loads a deposit with an exclusive row lock so that two admins
// approving concurrently serialize on the status guard.
func (r *DepositRepository) LockByID(tx *gorm.DB, id uint) (*models.Deposit, error) {
	var d models.Deposit
	if err := forUpdate(tx).First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (r *DepositRepository) Update(tx *gorm.DB, d *models.Deposit) error {
	return tx.Save(d).Error
}

func (r *DepositRepository) ListByUserID(userID uint) ([]models.Deposit, error) {
	var list []models.Deposit
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *DepositRepository) ListAll(status string, page, limit int) ([]models.Deposit, int64, error) {
	q := r.db.Model(&models.Deposit{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	q.Count(&total)
	var list []models.Deposit
	err := q.Preload("User").Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
