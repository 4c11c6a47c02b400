package repository

import (
	"time"

	"apexmine/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetActiveByUserID returns the newest active session for the user, or
// ErrNotFound when the account has none (an inconsistent state for paid
// tiers that the sweep repairs).
func (r *SessionRepository) GetActiveByUserID(tx *gorm.DB, userID uint) (*models.MiningSession, error) {
	var s models.MiningSession
	err := tx.Where("user_id = ? AND is_active = ?", userID, true).
		Order("started_at DESC").First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// DeactivateForUser closes every active session for the user. Safe to
// call when none exist; used both on upgrade (supersede) and expiry.
func (r *SessionRepository) DeactivateForUser(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.MiningSession{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}

func (r *SessionRepository) Create(tx *gorm.DB, userID uint, tier int, startedAt time.Time, expiresAt *time.Time) error {
	return tx.Create(&models.MiningSession{
		UserID:    userID,
		Tier:      tier,
		StartedAt: startedAt,
		ExpiresAt: expiresAt,
		IsActive:  true,
	}).Error
}
