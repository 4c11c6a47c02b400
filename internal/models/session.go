package models

import (
	"time"

	"gorm.io/gorm"
)

// MiningSession records an active paid-tier entitlement window.
// At most one session per user is active; when active, its tier and
// expiry mirror the user's current tier and tier_expiry.
type MiningSession struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Tier      int            `gorm:"not null" json:"tier"`
	StartedAt time.Time      `json:"started_at"`
	ExpiresAt *time.Time     `json:"expires_at"` // nil = never
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (MiningSession) TableName() string { return "mining_sessions" }

func (s *MiningSession) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
