package repository

import (
	"apexmine/internal/models"

	"gorm.io/gorm"
)

type EarningRepository struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) *EarningRepository {
	return &EarningRepository{db: db}
}

// Create appends an earning audit row. Rows are never updated or deleted.
func (r *EarningRepository) Create(tx *gorm.DB, e *models.MiningEarning) error {
	return tx.Create(e).Error
}

func (r *EarningRepository) ListByUserID(userID uint, limit int) ([]models.MiningEarning, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []models.MiningEarning
	err := r.db.Where("user_id = ?", userID).
		Order("mined_at DESC").Limit(limit).Find(&list).Error
	return list, err
}
