package handler

import (
	"net/http"
	"strconv"

	"apexmine/internal/middleware"
	"apexmine/internal/repository"
	"apexmine/internal/service"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	accountRepo       *repository.AccountRepository
	miningService     *service.MiningService
	depositService    *service.DepositService
	withdrawalService *service.WithdrawalService
	notifications     *service.NotificationService
}

func NewMeHandler(
	accountRepo *repository.AccountRepository,
	miningService *service.MiningService,
	depositService *service.DepositService,
	withdrawalService *service.WithdrawalService,
	notifications *service.NotificationService,
) *MeHandler {
	return &MeHandler{
		accountRepo:       accountRepo,
		miningService:     miningService,
		depositService:    depositService,
		withdrawalService: withdrawalService,
		notifications:     notifications,
	}
}

func (h *MeHandler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.accountRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UpdateProfile updates contact details and the payout wallet address.
func (h *MeHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		FullName    string `json:"full_name"`
		Phone       string `json:"phone"`
		Country     string `json:"country"`
		Trc20Wallet string `json:"trc20_wallet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.accountRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.FullName != "" {
		u.FullName = req.FullName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.Country != "" {
		u.Country = req.Country
	}
	if req.Trc20Wallet != "" {
		u.Trc20Wallet = req.Trc20Wallet
	}
	if err := h.accountRepo.Update(u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// Dashboard is the home-screen snapshot: balances, mining status and
// recent activity in one call.
func (h *MeHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.accountRepo.GetByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	status, err := h.miningService.Status(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	earnings, _ := h.miningService.Earnings(userID, 5)
	withdrawals, _ := h.withdrawalService.ListForUser(userID)
	if len(withdrawals) > 5 {
		withdrawals = withdrawals[:5]
	}
	c.JSON(http.StatusOK, gin.H{
		"user":               u,
		"mining":             status,
		"recent_earnings":    earnings,
		"recent_withdrawals": withdrawals,
	})
}

// Transactions merges deposits, withdrawals, earnings and fee payments
// for the history screen.
func (h *MeHandler) Transactions(c *gin.Context) {
	userID := middleware.GetUserID(c)
	deposits, err := h.depositService.ListForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	withdrawals, err := h.withdrawalService.ListForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	earnings, err := h.miningService.Earnings(userID, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	feePayments, err := h.withdrawalService.ListFeePaymentsForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deposits":     deposits,
		"withdrawals":  withdrawals,
		"earnings":     earnings,
		"fee_payments": feePayments,
	})
}

func (h *MeHandler) Notifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.notifications.List(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *MeHandler) MarkNotificationRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.notifications.MarkRead(userID, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked read"})
}
