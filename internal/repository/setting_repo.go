package repository

import (
	"errors"

	"apexmine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (string, error) {
	var s models.SystemSetting
	if err := r.db.Where("`key` = ?", key).First(&s).Error; err != nil {
		return "", notFound(err)
	}
	return s.Value, nil
}

// GetDecimal reads a setting and parses it as a decimal, falling back to
// the given default when the key is missing or malformed.
func (r *SettingRepository) GetDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	raw, err := r.Get(key)
	if err != nil {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return d
}

func (r *SettingRepository) Set(key, value string) error {
	s := models.SystemSetting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&s).Error
}

func (r *SettingRepository) GetAll() (map[string]string, error) {
	var list []models.SystemSetting
	if err := r.db.Find(&list).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.Key] = s.Value
	}
	return out, nil
}

// SeedDefaults inserts any missing keys without touching existing values.
func (r *SettingRepository) SeedDefaults(defaults map[string]string) error {
	for key, value := range defaults {
		var s models.SystemSetting
		err := r.db.Where("`key` = ?", key).First(&s).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := r.db.Create(&models.SystemSetting{Key: key, Value: value}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
