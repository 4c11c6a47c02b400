package service

import (
	"crypto/rand"
	"errors"

	"apexmine/internal/domain"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type ReferralService struct {
	db          *gorm.DB
	accounts    *repository.AccountRepository
	commissions *repository.CommissionRepository
	settings    *repository.SettingRepository
	notifier    *NotificationService
	log         *logger.Logger
}

func NewReferralService(
	db *gorm.DB,
	accounts *repository.AccountRepository,
	commissions *repository.CommissionRepository,
	settings *repository.SettingRepository,
	notifier *NotificationService,
	log *logger.Logger,
) *ReferralService {
	return &ReferralService{
		db:          db,
		accounts:    accounts,
		commissions: commissions,
		settings:    settings,
		notifier:    notifier,
		log:         log,
	}
}

// GenerateCode produces an unused 8-char referral code, re-rolling on
// the rare collision.
func (s *ReferralService) GenerateCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i := range buf {
			buf[i] = referralCodeAlphabet[int(buf[i])%len(referralCodeAlphabet)]
		}
		code := string(buf)
		_, err := s.accounts.GetByReferralCode(code)
		if errors.Is(err, domain.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not generate referral code")
}

// ResolveCode maps a signup referral code to the referrer's id. An
// unknown code is not an error; signup proceeds unreferred.
func (s *ReferralService) ResolveCode(code string) *uint {
	if code == "" {
		return nil
	}
	u, err := s.accounts.GetByReferralCode(code)
	if err != nil {
		return nil
	}
	return &u.ID
}

// PayCommission credits the referrer a percentage of an approved
// deposit. Runs in its own transaction after the upgrade commits; a
// failure here is logged and never unwinds the upgrade. Commissions
// are paid once per deposit and never reversed.
func (s *ReferralService) PayCommission(deposit *models.Deposit, referee *models.User) {
	if referee.ReferredByID == nil {
		return
	}
	already, err := s.commissions.ExistsForDeposit(deposit.ID)
	if err != nil || already {
		return
	}
	pct := s.settings.GetDecimal(domain.SettingCommissionPercent, domain.DefaultCommissionPercent)
	amount := deposit.AmountUSD.Mul(pct).Div(decimal.NewFromInt(100))
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	referrerID := *referee.ReferredByID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		referrer, err := s.accounts.LockByID(tx, referrerID)
		if err != nil {
			return err
		}
		if err := s.accounts.CreditCommission(tx, referrer, amount); err != nil {
			return err
		}
		return s.commissions.Create(tx, &models.ReferralCommission{
			ReferrerID:    referrerID,
			RefereeID:     referee.ID,
			DepositID:     deposit.ID,
			CommissionPct: pct,
			AmountUSD:     amount,
		})
	})
	if err != nil {
		s.log.WithError(err).
			WithField("deposit_id", deposit.ID).
			WithField("referrer_id", referrerID).
			Error("referral commission failed")
		return
	}
	if nerr := s.notifier.NotifyCommission(referrerID, amount, referee.FullName); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", referrerID).Warn("commission notification failed")
	}
}

// ReferralStats is the summary shown on the referral screen.
type ReferralStats struct {
	ReferralCode   string                      `json:"referral_code"`
	TotalReferrals int64                       `json:"total_referrals"`
	TotalEarnedUSD decimal.Decimal             `json:"total_earned_usd"`
	CommissionPct  decimal.Decimal             `json:"commission_pct"`
	RecentEarnings []models.ReferralCommission `json:"recent_earnings"`
}

func (s *ReferralService) Stats(userID uint) (*ReferralStats, error) {
	u, err := s.accounts.GetByID(userID)
	if err != nil {
		return nil, err
	}
	count, err := s.commissions.CountReferrals(userID)
	if err != nil {
		return nil, err
	}
	total, err := s.commissions.TotalForReferrer(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.commissions.ListByReferrerID(userID, 20)
	if err != nil {
		return nil, err
	}
	return &ReferralStats{
		ReferralCode:   u.ReferralCode,
		TotalReferrals: count,
		TotalEarnedUSD: total,
		CommissionPct:  s.settings.GetDecimal(domain.SettingCommissionPercent, domain.DefaultCommissionPercent),
		RecentEarnings: recent,
	}, nil
}
