package repository

import (
	"time"

	"apexmine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"apexmine/internal/domain"
)

// AccountRepository is the balance ledger. Every mutation is a signed
// delta applied to a row the caller has locked inside a transaction;
// nothing here overwrites a balance read outside the lock.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *AccountRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *AccountRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *AccountRepository) GetByReferralCode(code string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("referral_code = ?", code).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *AccountRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

// LockByID loads an account with an exclusive row lock. Must be called
// inside a transaction; the lock is held until that transaction ends.
func (r *AccountRepository) LockByID(tx *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	if err := forUpdate(tx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// LockActive loads every active account with exclusive row locks, for
// the daily distribution sweep.
func (r *AccountRepository) LockActive(tx *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := forUpdate(tx).Where("is_active = ?", true).Order("id ASC").Find(&users).Error
	return users, err
}

// CreditEarning applies a mining yield: balance and total_earned grow by
// amount, last_mined_at advances. u must be row-locked under tx.
func (r *AccountRepository) CreditEarning(tx *gorm.DB, u *models.User, amount decimal.Decimal, minedAt time.Time) error {
	u.Balance = u.Balance.Add(amount)
	u.TotalEarned = u.TotalEarned.Add(amount)
	u.LastMinedAt = &minedAt
	return tx.Model(u).Updates(map[string]interface{}{
		"balance":       u.Balance,
		"total_earned":  u.TotalEarned,
		"last_mined_at": u.LastMinedAt,
	}).Error
}

// CreditCommission applies a referral commission to the referrer.
// u must be row-locked under tx.
func (r *AccountRepository) CreditCommission(tx *gorm.DB, u *models.User, amount decimal.Decimal) error {
	u.Balance = u.Balance.Add(amount)
	u.ReferralEarnings = u.ReferralEarnings.Add(amount)
	return tx.Model(u).Updates(map[string]interface{}{
		"balance":           u.Balance,
		"referral_earnings": u.ReferralEarnings,
	}).Error
}

// Debit removes amount from the balance, failing with
// ErrInsufficientBalance rather than ever writing a negative value.
// u must be row-locked under tx.
func (r *AccountRepository) Debit(tx *gorm.DB, u *models.User, amount decimal.Decimal) error {
	if u.Balance.LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	u.Balance = u.Balance.Sub(amount)
	return tx.Model(u).Update("balance", u.Balance).Error
}

// SetTier moves the account to a tier with the given expiry (nil =
// permanent). u must be row-locked under tx.
func (r *AccountRepository) SetTier(tx *gorm.DB, u *models.User, tier int, expiry *time.Time) error {
	u.Tier = tier
	u.TierExpiry = expiry
	return tx.Model(u).Updates(map[string]interface{}{
		"tier":        tier,
		"tier_expiry": expiry,
	}).Error
}

// SetFeePaid marks the one-time withdrawal fee as settled.
func (r *AccountRepository) SetFeePaid(tx *gorm.DB, u *models.User) error {
	u.WithdrawalFeePaid = true
	return tx.Model(u).Update("withdrawal_fee_paid", true).Error
}

// ListUsers returns users with search and pagination for the admin panel.
func (r *AccountRepository) ListUsers(search string, page, limit int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if search != "" {
		q = q.Where("email LIKE ? OR full_name LIKE ? OR phone LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	var total int64
	q.Count(&total)
	var users []models.User
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error
	return users, total, err
}
