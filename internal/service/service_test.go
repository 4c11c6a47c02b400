package service

import (
	"fmt"
	"testing"
	"time"

	"apexmine/internal/database"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// env is the full service graph over a fresh in-memory database, one
// per test.
type env struct {
	db          *gorm.DB
	accounts    *repository.AccountRepository
	tiers       *repository.TierRepository
	sessions    *repository.SessionRepository
	earnings    *repository.EarningRepository
	deposits    *repository.DepositRepository
	withdrawals *repository.WithdrawalRepository
	feePayments *repository.FeePaymentRepository
	commissions *repository.CommissionRepository
	settings    *repository.SettingRepository

	mining     *MiningService
	deposit    *DepositService
	withdrawal *WithdrawalService
	referral   *ReferralService
	notifier   *NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serializes transactions.
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedTiers(db); err != nil {
		t.Fatalf("seed tiers: %v", err)
	}

	e := &env{
		db:          db,
		accounts:    repository.NewAccountRepository(db),
		tiers:       repository.NewTierRepository(db),
		sessions:    repository.NewSessionRepository(db),
		earnings:    repository.NewEarningRepository(db),
		deposits:    repository.NewDepositRepository(db),
		withdrawals: repository.NewWithdrawalRepository(db),
		feePayments: repository.NewFeePaymentRepository(db),
		commissions: repository.NewCommissionRepository(db),
		settings:    repository.NewSettingRepository(db),
	}
	if err := e.settings.SeedDefaults(database.DefaultSettings()); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	log := logger.New("test")
	notifRepo := repository.NewNotificationRepository(db)
	e.notifier = NewNotificationService(notifRepo, nil)
	e.referral = NewReferralService(db, e.accounts, e.commissions, e.settings, e.notifier, log)
	e.mining = NewMiningService(db, e.accounts, e.tiers, e.sessions, e.earnings, e.settings, e.notifier, log)
	e.deposit = NewDepositService(db, e.deposits, e.accounts, e.tiers, e.sessions, e.settings, e.referral, e.notifier, log)
	e.withdrawal = NewWithdrawalService(db, e.withdrawals, e.feePayments, e.accounts, e.tiers, e.settings, e.notifier, log)
	return e
}

var testUserSeq int

func (e *env) newUser(t *testing.T, mutate ...func(*models.User)) *models.User {
	t.Helper()
	testUserSeq++
	u := &models.User{
		Email:        fmt.Sprintf("user%d-%s@test.local", testUserSeq, t.Name()),
		FullName:     fmt.Sprintf("Test User %d", testUserSeq),
		Role:         "USER",
		Tier:         1,
		ReferralCode: fmt.Sprintf("TC%06d", testUserSeq),
		IsActive:     true,
	}
	for _, m := range mutate {
		m(u)
	}
	if err := e.accounts.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *env) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	u, err := e.accounts.GetByID(id)
	if err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return u
}

func (e *env) setBalance(t *testing.T, id uint, amount string) {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("bad amount %q: %v", amount, err)
	}
	if err := e.db.Model(&models.User{}).Where("id = ?", id).Update("balance", d).Error; err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

// grantTier mirrors what a deposit approval does: sets the tier
// columns and opens an active session.
func (e *env) grantTier(t *testing.T, id uint, tier int, expiry *time.Time) {
	t.Helper()
	err := e.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"tier": tier, "tier_expiry": expiry}).Error
	if err != nil {
		t.Fatalf("grant tier: %v", err)
	}
	if err := e.sessions.Create(e.db, id, tier, time.Now(), expiry); err != nil {
		t.Fatalf("create session: %v", err)
	}
}

func (e *env) setLastMined(t *testing.T, id uint, at time.Time) {
	t.Helper()
	if err := e.db.Model(&models.User{}).Where("id = ?", id).Update("last_mined_at", at).Error; err != nil {
		t.Fatalf("set last_mined_at: %v", err)
	}
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}
