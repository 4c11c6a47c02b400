package service

import (
	"time"

	"apexmine/internal/domain"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DepositService handles upgrade payments: submission with proof, and
// the admin review that activates the tier and pays the referrer.
type DepositService struct {
	db        *gorm.DB
	deposits  *repository.DepositRepository
	accounts  *repository.AccountRepository
	tiers     *repository.TierRepository
	sessions  *repository.SessionRepository
	settings  *repository.SettingRepository
	referrals *ReferralService
	notifier  *NotificationService
	log       *logger.Logger
}

func NewDepositService(
	db *gorm.DB,
	deposits *repository.DepositRepository,
	accounts *repository.AccountRepository,
	tiers *repository.TierRepository,
	sessions *repository.SessionRepository,
	settings *repository.SettingRepository,
	referrals *ReferralService,
	notifier *NotificationService,
	log *logger.Logger,
) *DepositService {
	return &DepositService{
		db:        db,
		deposits:  deposits,
		accounts:  accounts,
		tiers:     tiers,
		sessions:  sessions,
		settings:  settings,
		referrals: referrals,
		notifier:  notifier,
		log:       log,
	}
}

// Submit records an upgrade payment for review. The amount is taken
// from the catalog, not from the client.
func (s *DepositService) Submit(userID uint, tierTarget int, method, proofURL, txHash string) (*models.Deposit, error) {
	tier, err := s.tiers.GetByNumber(tierTarget)
	if err != nil {
		return nil, err
	}
	if tierTarget <= domain.FreeTier {
		return nil, domain.ErrNotEligible
	}
	rate := s.settings.GetDecimal(domain.SettingUsdToNgnRate, domain.DefaultUsdToNgn)
	d := &models.Deposit{
		UserID:     userID,
		TierTarget: tierTarget,
		AmountUSD:  tier.PriceUSD,
		AmountNGN:  tier.PriceUSD.Mul(rate).Round(2),
		Method:     method,
		ProofURL:   proofURL,
		TxHash:     txHash,
		Status:     domain.StatusPending,
	}
	if err := s.deposits.Create(d); err != nil {
		return nil, err
	}
	s.log.WithField("user_id", userID).WithField("tier", tierTarget).Info("deposit submitted")
	return d, nil
}

// Approve confirms the payment and activates the target tier: the user
// moves to the tier, any prior session closes, a fresh session opens
// with the catalog duration. A second approval of the same deposit
// fails with ErrAlreadyReviewed. Commission is paid after commit.
func (s *DepositService) Approve(depositID uint, adminNote string) (*models.Deposit, error) {
	var (
		deposit *models.Deposit
		referee *models.User
		tier    *models.MiningTier
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		deposit, err = s.deposits.LockByID(tx, depositID)
		if err != nil {
			return err
		}
		if deposit.Status != domain.StatusPending {
			return domain.ErrAlreadyReviewed
		}
		tier, err = s.tiers.GetByNumber(deposit.TierTarget)
		if err != nil {
			return err
		}
		referee, err = s.accounts.LockByID(tx, deposit.UserID)
		if err != nil {
			return err
		}
		now := time.Now()
		var expiry *time.Time
		if !tier.IsPermanent() {
			e := now.AddDate(0, 0, tier.DurationDays)
			expiry = &e
		}
		if err := s.accounts.SetTier(tx, referee, tier.TierNumber, expiry); err != nil {
			return err
		}
		if err := s.sessions.DeactivateForUser(tx, referee.ID); err != nil {
			return err
		}
		if err := s.sessions.Create(tx, referee.ID, tier.TierNumber, now, expiry); err != nil {
			return err
		}
		deposit.Status = domain.StatusApproved
		deposit.AdminNote = adminNote
		deposit.ReviewedAt = &now
		return s.deposits.Update(tx, deposit)
	})
	if err != nil {
		return nil, err
	}
	// Post-commit side effects. The upgrade stands even if these fail.
	s.referrals.PayCommission(deposit, referee)
	if nerr := s.notifier.NotifyDepositApproved(referee.ID, tier.Name); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", referee.ID).Warn("deposit approval notification failed")
	}
	return deposit, nil
}

// Reject is terminal and touches no balance or tier.
func (s *DepositService) Reject(depositID uint, adminNote string) (*models.Deposit, error) {
	var deposit *models.Deposit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		deposit, err = s.deposits.LockByID(tx, depositID)
		if err != nil {
			return err
		}
		if deposit.Status != domain.StatusPending {
			return domain.ErrAlreadyReviewed
		}
		now := time.Now()
		deposit.Status = domain.StatusRejected
		deposit.AdminNote = adminNote
		deposit.ReviewedAt = &now
		return s.deposits.Update(tx, deposit)
	})
	if err != nil {
		return nil, err
	}
	if nerr := s.notifier.NotifyDepositRejected(deposit.UserID, adminNote); nerr != nil {
		s.log.WithError(nerr).WithField("user_id", deposit.UserID).Warn("deposit rejection notification failed")
	}
	return deposit, nil
}

// BulkApproveResult reports the outcome per deposit id.
type BulkApproveResult struct {
	DepositID uint   `json:"deposit_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// BulkApprove approves each id independently; one bad id does not stop
// the rest.
func (s *DepositService) BulkApprove(ids []uint, adminNote string) []BulkApproveResult {
	results := make([]BulkApproveResult, 0, len(ids))
	for _, id := range ids {
		_, err := s.Approve(id, adminNote)
		r := BulkApproveResult{DepositID: id, OK: err == nil}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	return results
}

func (s *DepositService) ListForUser(userID uint) ([]models.Deposit, error) {
	return s.deposits.ListByUserID(userID)
}

func (s *DepositService) ListAll(status string, page, limit int) ([]models.Deposit, int64, error) {
	return s.deposits.ListAll(status, page, limit)
}

// QuoteNGN converts a USD amount at the configured exchange rate.
func (s *DepositService) QuoteNGN(usd decimal.Decimal) decimal.Decimal {
	rate := s.settings.GetDecimal(domain.SettingUsdToNgnRate, domain.DefaultUsdToNgn)
	return usd.Mul(rate).Round(2)
}
