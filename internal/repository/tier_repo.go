package repository

import (
	"apexmine/internal/models"

	"gorm.io/gorm"
)

type TierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) GetByNumber(tierNumber int) (*models.MiningTier, error) {
	var t models.MiningTier
	if err := r.db.Where("tier_number = ?", tierNumber).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *TierRepository) List() ([]models.MiningTier, error) {
	var tiers []models.MiningTier
	err := r.db.Order("tier_number ASC").Find(&tiers).Error
	return tiers, err
}

func (r *TierRepository) Create(t *models.MiningTier) error {
	return r.db.Create(t).Error
}

func (r *TierRepository) Update(t *models.MiningTier) error {
	return r.db.Save(t).Error
}

func (r *TierRepository) Delete(id uint) error {
	return r.db.Delete(&models.MiningTier{}, id).Error
}
