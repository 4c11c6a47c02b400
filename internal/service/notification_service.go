package service

import (
	"encoding/json"
	"fmt"

	"apexmine/internal/domain"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/internal/ws"

	"github.com/shopspring/decimal"
)

type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

func (s *NotificationService) Notify(userID uint, notifType, title, body string, data map[string]interface{}) error {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	n := &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	}
	if err := s.repo.Create(n); err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.SendToUser(userID, wsEvent{
			Type:  notifType,
			Title: title,
			Body:  body,
			Data:  data,
		})
	}
	return nil
}

type wsEvent struct {
	Type  string                 `json:"type"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

func (s *NotificationService) List(userID uint, limit int) ([]models.Notification, error) {
	return s.repo.ListByUserID(userID, limit)
}

func (s *NotificationService) MarkRead(userID, id uint) error {
	return s.repo.MarkRead(userID, id)
}

func (s *NotificationService) NotifyMiningReward(userID uint, amount decimal.Decimal) error {
	return s.Notify(userID, domain.NotifTypeMining, "Mining reward",
		fmt.Sprintf("You earned $%s from mining", amount.StringFixed(2)),
		map[string]interface{}{"amount_usd": amount.String()})
}

func (s *NotificationService) NotifyDepositApproved(userID uint, tierName string) error {
	return s.Notify(userID, domain.NotifTypeDeposit, "Deposit approved",
		"Your payment was confirmed and "+tierName+" is now active", nil)
}

func (s *NotificationService) NotifyDepositRejected(userID uint, note string) error {
	body := "Your payment could not be verified"
	if note != "" {
		body += ": " + note
	}
	return s.Notify(userID, domain.NotifTypeDeposit, "Deposit rejected", body, nil)
}

func (s *NotificationService) NotifyWithdrawalApproved(userID uint, amount decimal.Decimal, transactionID string) error {
	return s.Notify(userID, domain.NotifTypeWithdrawal, "Withdrawal approved",
		fmt.Sprintf("Your withdrawal of $%s has been paid out", amount.StringFixed(2)),
		map[string]interface{}{"transaction_id": transactionID})
}

func (s *NotificationService) NotifyWithdrawalRejected(userID uint, transactionID, note string) error {
	body := "Your withdrawal request was declined"
	if note != "" {
		body += ": " + note
	}
	return s.Notify(userID, domain.NotifTypeWithdrawal, "Withdrawal rejected", body,
		map[string]interface{}{"transaction_id": transactionID})
}

func (s *NotificationService) NotifyTierExpired(userID uint, tierName string) error {
	return s.Notify(userID, domain.NotifTypeTier, "Plan expired",
		tierName+" has ended. You are back on the free plan", nil)
}

func (s *NotificationService) NotifyCommission(userID uint, amount decimal.Decimal, refereeName string) error {
	return s.Notify(userID, domain.NotifTypeReferral, "Referral bonus",
		fmt.Sprintf("You earned $%s because %s upgraded", amount.StringFixed(2), refereeName),
		map[string]interface{}{"amount_usd": amount.String()})
}

func (s *NotificationService) NotifyFeeApproved(userID uint) error {
	return s.Notify(userID, domain.NotifTypeSystem, "Fee confirmed",
		"Your withdrawal fee payment was confirmed. Withdrawals are unlocked", nil)
}

func (s *NotificationService) NotifyFeeRejected(userID uint, note string) error {
	body := "Your withdrawal fee payment could not be verified"
	if note != "" {
		body += ": " + note
	}
	return s.Notify(userID, domain.NotifTypeSystem, "Fee rejected", body, nil)
}
