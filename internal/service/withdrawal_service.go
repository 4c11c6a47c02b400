package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"apexmine/internal/domain"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WithdrawalService gates payout requests and settles them at admin
// review. The balance is debited at approval, not at request, so a
// pending request never freezes funds.
type WithdrawalService struct {
	db          *gorm.DB
	withdrawals *repository.WithdrawalRepository
	feePayments *repository.FeePaymentRepository
	accounts    *repository.AccountRepository
	tiers       *repository.TierRepository
	settings    *repository.SettingRepository
	notifier    *NotificationService
	log         *logger.Logger
}

func NewWithdrawalService(
	db *gorm.DB,
	withdrawals *repository.WithdrawalRepository,
	feePayments *repository.FeePaymentRepository,
	accounts *repository.AccountRepository,
	tiers *repository.TierRepository,
	settings *repository.SettingRepository,
	notifier *NotificationService,
	log *logger.Logger,
) *WithdrawalService {
	return &WithdrawalService{
		db:          db,
		withdrawals: withdrawals,
		feePayments: feePayments,
		accounts:    accounts,
		tiers:       tiers,
		settings:    settings,
		notifier:    notifier,
		log:         log,
	}
}

// WithdrawalRequest carries the destination details for a payout.
type WithdrawalRequest struct {
	AmountUSD     decimal.Decimal
	Method        string
	WalletAddress string
	BankName      string
	AccountNumber string
	AccountName   string
}

// Request validates gates and limits and records a pending withdrawal.
// Funds are checked now but debited only at approval.
func (s *WithdrawalService) Request(userID uint, req WithdrawalRequest) (*models.Withdrawal, error) {
	u, err := s.accounts.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !u.CanWithdraw() {
		return nil, domain.ErrNotEligible
	}
	if req.AmountUSD.LessThan(domain.MinWithdrawalUSD) {
		return nil, domain.ErrBelowMinimum
	}
	if req.AmountUSD.GreaterThan(domain.MaxWithdrawalUSD) {
		return nil, domain.ErrAboveMaximum
	}
	if u.Balance.LessThan(req.AmountUSD) {
		return nil, domain.ErrInsufficientBalance
	}
	txid, err := s.generateTransactionID()
	if err != nil {
		return nil, err
	}
	rate := s.settings.GetDecimal(domain.SettingUsdToNgnRate, domain.DefaultUsdToNgn)
	w := &models.Withdrawal{
		UserID:        userID,
		AmountUSD:     req.AmountUSD,
		AmountNGN:     req.AmountUSD.Mul(rate).Round(2),
		Method:        req.Method,
		WalletAddress: req.WalletAddress,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		Status:        domain.StatusPending,
		TransactionID: txid,
	}
	if err := s.withdrawals.Create(w); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", userID).WithField("transaction_id", txid).Info("withdrawal requested")
	return w, nil
}

// Approve settles a pending withdrawal: the balance is re-validated and
// debited atomically under the user's row lock. A balance spent since
// the request fails the approval with ErrInsufficientBalance and the
// request stays pending.
func (s *WithdrawalService) Approve(withdrawalID uint, txHash, adminNote string) (*models.Withdrawal, error) {
	var w *models.Withdrawal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		w, err = s.withdrawals.LockByID(tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.StatusPending && w.Status != domain.StatusProcessing {
			return domain.ErrAlreadyReviewed
		}
		u, err := s.accounts.LockByID(tx, w.UserID)
		if err != nil {
			return err
		}
		if err := s.accounts.Debit(tx, u, w.AmountUSD); err != nil {
			return err
		}
		now := time.Now()
		w.Status = domain.StatusApproved
		w.TxHash = txHash
		w.AdminNote = adminNote
		w.ReviewedAt = &now
		w.CompletedAt = &now
		return s.withdrawals.Update(tx, w)
	})
	if err != nil {
		return nil, err
	}
	if nerr := s.notifier.NotifyWithdrawalApproved(w.UserID, w.AmountUSD, w.TransactionID); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", w.UserID).Warn("withdrawal approval notification failed")
	}
	return w, nil
}

// Reject is terminal. Nothing was debited at request time, so there is
// nothing to refund.
func (s *WithdrawalService) Reject(withdrawalID uint, adminNote string) (*models.Withdrawal, error) {
	var w *models.Withdrawal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		w, err = s.withdrawals.LockByID(tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.StatusPending && w.Status != domain.StatusProcessing {
			return domain.ErrAlreadyReviewed
		}
		now := time.Now()
		w.Status = domain.StatusRejected
		w.AdminNote = adminNote
		w.ReviewedAt = &now
		return s.withdrawals.Update(tx, w)
	})
	if err != nil {
		return nil, err
	}
	if nerr := s.notifier.NotifyWithdrawalRejected(w.UserID, w.TransactionID, adminNote); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", w.UserID).Warn("withdrawal rejection notification failed")
	}
	return w, nil
}

// MarkProcessing moves a pending request to processing so users see the
// payout is being worked on.
func (s *WithdrawalService) MarkProcessing(withdrawalID uint) (*models.Withdrawal, error) {
	var w *models.Withdrawal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		w, err = s.withdrawals.LockByID(tx, withdrawalID)
		if err != nil {
			return err
		}
		if w.Status != domain.StatusPending {
			return domain.ErrAlreadyReviewed
		}
		w.Status = domain.StatusProcessing
		return s.withdrawals.Update(tx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// TrackByTransactionID returns a withdrawal for the user's own tracking
// screen.
func (s *WithdrawalService) TrackByTransactionID(userID uint, transactionID string) (*models.Withdrawal, error) {
	return s.withdrawals.GetByTransactionID(userID, transactionID)
}

func (s *WithdrawalService) ListForUser(userID uint) ([]models.Withdrawal, error) {
	return s.withdrawals.ListByUserID(userID)
}

func (s *WithdrawalService) ListAll(status string, page, limit int) ([]models.Withdrawal, int64, error) {
	return s.withdrawals.ListAll(status, page, limit)
}

// WithdrawalLimits is what the client renders on the withdrawal form.
type WithdrawalLimits struct {
	MinUSD      decimal.Decimal `json:"min_usd"`
	MaxUSD      decimal.Decimal `json:"max_usd"`
	FeePaid     bool            `json:"fee_paid"`
	FeeUSD      decimal.Decimal `json:"fee_usd"`
	CanWithdraw bool            `json:"can_withdraw"`
	CanPayFee   bool            `json:"can_pay_fee"`
	GateUSD     decimal.Decimal `json:"free_tier_gate_usd"`
	BalanceUSD  decimal.Decimal `json:"balance_usd"`
}

func (s *WithdrawalService) Limits(userID uint) (*WithdrawalLimits, error) {
	u, err := s.accounts.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &WithdrawalLimits{
		MinUSD:      domain.MinWithdrawalUSD,
		MaxUSD:      domain.MaxWithdrawalUSD,
		FeePaid:     u.WithdrawalFeePaid,
		FeeUSD:      s.feeForTier(u.Tier),
		CanWithdraw: u.CanWithdraw(),
		CanPayFee:   !u.WithdrawalFeePaid && u.CanPayWithdrawalFee(),
		GateUSD:     domain.FreeTierWithdrawGate,
		BalanceUSD:  u.Balance,
	}, nil
}

// PayFee records the one-time withdrawal fee payment for review.
func (s *WithdrawalService) PayFee(userID uint, method, proofURL, txHash string) (*models.WithdrawalFeePayment, error) {
	u, err := s.accounts.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u.WithdrawalFeePaid {
		return nil, domain.ErrFeeAlreadyPaid
	}
	if !u.CanPayWithdrawalFee() {
		return nil, domain.ErrNotEligible
	}
	pending, err := s.feePayments.HasPending(userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrAlreadyReviewed
	}
	p := &models.WithdrawalFeePayment{
		UserID:       userID,
		Tier:         u.Tier,
		FeeAmountUSD: s.feeForTier(u.Tier),
		Method:       method,
		ProofURL:     proofURL,
		TxHash:       txHash,
		Status:       domain.StatusPending,
	}
	if err := s.feePayments.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ApproveFee confirms the fee payment and unlocks withdrawals.
func (s *WithdrawalService) ApproveFee(paymentID uint) (*models.WithdrawalFeePayment, error) {
	var p *models.WithdrawalFeePayment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.feePayments.LockByID(tx, paymentID)
		if err != nil {
			return err
		}
		if p.Status != domain.StatusPending {
			return domain.ErrAlreadyReviewed
		}
		u, err := s.accounts.LockByID(tx, p.UserID)
		if err != nil {
			return err
		}
		if err := s.accounts.SetFeePaid(tx, u); err != nil {
			return err
		}
		now := time.Now()
		p.Status = domain.StatusApproved
		p.ReviewedAt = &now
		return s.feePayments.Update(tx, p)
	})
	if err != nil {
		return nil, err
	}
	if nerr := s.notifier.NotifyFeeApproved(p.UserID); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", p.UserID).Warn("fee approval notification failed")
	}
	return p, nil
}

func (s *WithdrawalService) RejectFee(paymentID uint, adminNote string) (*models.WithdrawalFeePayment, error) {
	var p *models.WithdrawalFeePayment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = s.feePayments.LockByID(tx, paymentID)
		if err != nil {
			return err
		}
		if p.Status != domain.StatusPending {
			return domain.ErrAlreadyReviewed
		}
		now := time.Now()
		p.Status = domain.StatusRejected
		p.ReviewedAt = &now
		return s.feePayments.Update(tx, p)
	})
	if err != nil {
		return nil, err
	}
	if nerr := s.notifier.NotifyFeeRejected(p.UserID, adminNote); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", p.UserID).Warn("fee rejection notification failed")
	}
	return p, nil
}

func (s *WithdrawalService) ListFeePaymentsForUser(userID uint) ([]models.WithdrawalFeePayment, error) {
	return s.feePayments.ListByUserID(userID)
}

func (s *WithdrawalService) ListAllFeePayments(status string, page, limit int) ([]models.WithdrawalFeePayment, int64, error) {
	return s.feePayments.ListAll(status, page, limit)
}

func (s *WithdrawalService) feeForTier(tier int) decimal.Decimal {
	t, err := s.tiers.GetByNumber(tier)
	if err != nil {
		return domain.FallbackWithdrawalFee
	}
	return t.WithdrawalFeeUSD
}

// generateTransactionID makes a WD-YYYYMMDD-prefixed id with six random
// digits, re-rolling on collision.
func (s *WithdrawalService) generateTransactionID() (string, error) {
	prefix := "WD-" + time.Now().UTC().Format("20060102")
	for attempt := 0; attempt < 10; attempt++ {
		buf := make([]byte, 6)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		digits := make([]byte, 6)
		for i := range buf {
			digits[i] = '0' + buf[i]%10
		}
		txid := fmt.Sprintf("%s%s", prefix, digits)
		exists, err := s.withdrawals.TransactionIDExists(txid)
		if err != nil {
			return "", err
		}
		if !exists {
			return txid, nil
		}
	}
	return "", domain.ErrDuplicateTransactionID
}
