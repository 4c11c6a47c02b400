package database

import (
	"apexmine/internal/domain"
	"apexmine/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// SeedTiers inserts the default tier catalog if a tier number is missing.
// Existing rows are left untouched so admin edits survive restarts.
func SeedTiers(db *gorm.DB) error {
	tiers := []models.MiningTier{
		{TierNumber: 1, Name: "Plan 1", PriceUSD: dec("0.00"), DailyYieldUSD: dec("1.00"), DurationDays: 100, WithdrawalFeeUSD: dec("5.00")},
		{TierNumber: 2, Name: "Plan 2", PriceUSD: dec("16.00"), DailyYieldUSD: dec("50.00"), DurationDays: 14, WithdrawalFeeUSD: dec("10.00")},
		{TierNumber: 3, Name: "Plan 3", PriceUSD: dec("69.99"), DailyYieldUSD: dec("130.00"), DurationDays: 14, WithdrawalFeeUSD: dec("15.00")},
		{TierNumber: 4, Name: "Plan 4", PriceUSD: dec("235.99"), DailyYieldUSD: dec("399.00"), DurationDays: 14, WithdrawalFeeUSD: dec("20.00")},
		{TierNumber: 5, Name: "Plan 5", PriceUSD: dec("699.99"), DailyYieldUSD: dec("699.00"), DurationDays: 30, WithdrawalFeeUSD: dec("25.00")},
	}
	for _, t := range tiers {
		var count int64
		db.Model(&models.MiningTier{}).Where("tier_number = ?", t.TierNumber).Count(&count)
		if count == 0 {
			if err := db.Create(&t).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// DefaultSettings returns the platform settings seeded on first boot.
func DefaultSettings() map[string]string {
	return map[string]string{
		domain.SettingCommissionPercent: domain.DefaultCommissionPercent.String(),
		domain.SettingUsdToNgnRate:      domain.DefaultUsdToNgn.String(),
		domain.SettingUsdtWallet:        "TQnXpzuRr8PFRnKqDU5b7ZfmwdJGFH4kLm",
		domain.SettingBankName:          "Opay",
		domain.SettingAccountName:       "Apex Mining Ltd",
		domain.SettingAccountNumber:     "0123456789",
		domain.SettingSupportURL:        "",
	}
}

// SeedAdmin creates the bootstrap admin account if no admin exists.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Tier:         domain.FreeTier,
		ReferralCode: "ADMIN000",
		IsActive:     true,
	}
	return db.Create(&admin).Error
}
