package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"apexmine/internal/database"
	"apexmine/internal/domain"
	"apexmine/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedUser(t *testing.T, repo *AccountRepository, balance string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        fmt.Sprintf("%s@ledger.test", t.Name()),
		Role:         domain.RoleUser,
		Tier:         domain.FreeTier,
		ReferralCode: fmt.Sprintf("%.8s", t.Name()),
		Balance:      dec(t, balance),
		IsActive:     true,
	}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create: %v", err)
	}
	return u
}

func TestDebitNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	u := seedUser(t, repo, "25.50")

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockByID(tx, u.ID)
		if err != nil {
			return err
		}
		return repo.Debit(tx, locked, dec(t, "25.51"))
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want insufficient balance", err)
	}
	got, _ := repo.GetByID(u.ID)
	if !got.Balance.Equal(dec(t, "25.50")) {
		t.Errorf("balance = %s, want untouched 25.50", got.Balance)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockByID(tx, u.ID)
		if err != nil {
			return err
		}
		return repo.Debit(tx, locked, dec(t, "25.50"))
	})
	if err != nil {
		t.Fatalf("exact debit: %v", err)
	}
	got, _ = repo.GetByID(u.ID)
	if !got.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", got.Balance)
	}
}

func TestCreditEarningUpdatesAllFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	u := seedUser(t, repo, "10")

	minedAt := time.Now().Truncate(time.Second)
	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockByID(tx, u.ID)
		if err != nil {
			return err
		}
		return repo.CreditEarning(tx, locked, dec(t, "2.5"), minedAt)
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	got, _ := repo.GetByID(u.ID)
	if !got.Balance.Equal(dec(t, "12.5")) {
		t.Errorf("balance = %s, want 12.5", got.Balance)
	}
	if !got.TotalEarned.Equal(dec(t, "2.5")) {
		t.Errorf("total_earned = %s, want 2.5", got.TotalEarned)
	}
	if got.LastMinedAt == nil || !got.LastMinedAt.Equal(minedAt) {
		t.Errorf("last_mined_at = %v, want %v", got.LastMinedAt, minedAt)
	}
}

func TestCreditCommissionLeavesMiningTotalsAlone(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	u := seedUser(t, repo, "0")

	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockByID(tx, u.ID)
		if err != nil {
			return err
		}
		return repo.CreditCommission(tx, locked, dec(t, "7"))
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	got, _ := repo.GetByID(u.ID)
	if !got.Balance.Equal(dec(t, "7")) {
		t.Errorf("balance = %s, want 7", got.Balance)
	}
	if !got.ReferralEarnings.Equal(dec(t, "7")) {
		t.Errorf("referral_earnings = %s, want 7", got.ReferralEarnings)
	}
	if !got.TotalEarned.IsZero() {
		t.Errorf("total_earned = %s, want 0 (commissions are not mining yield)", got.TotalEarned)
	}
}

func TestLockActiveSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)

	var ids []uint
	for i := 0; i < 3; i++ {
		u := &models.User{
			Email:        fmt.Sprintf("u%d@%s.test", i, t.Name()),
			Role:         domain.RoleUser,
			Tier:         domain.FreeTier,
			ReferralCode: fmt.Sprintf("LA%d%.5s", i, t.Name()),
			IsActive:     true,
		}
		if err := repo.Create(u); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, u.ID)
	}
	// Deactivate the middle account. Updated via the column because a
	// false value would be skipped on insert by the default tag.
	if err := db.Model(&models.User{}).Where("id = ?", ids[1]).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		users, err := repo.LockActive(tx)
		if err != nil {
			return err
		}
		if len(users) != 2 {
			t.Errorf("active users = %d, want 2", len(users))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("lock active: %v", err)
	}
}
