package handler

import (
	"net/http"

	"apexmine/internal/domain"
	"apexmine/internal/middleware"
	"apexmine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	withdrawalService *service.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// Create submits a payout request. Crypto needs a wallet address, bank
// needs the account triple.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		AmountUSD     string `json:"amount_usd" binding:"required"`
		Method        string `json:"method" binding:"required"`
		WalletAddress string `json:"wallet_address"`
		BankName      string `json:"bank_name"`
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.AmountUSD)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	switch req.Method {
	case domain.MethodCrypto:
		if req.WalletAddress == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_address required for crypto"})
			return
		}
	case domain.MethodBank:
		if req.BankName == "" || req.AccountNumber == "" || req.AccountName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bank_name, account_number and account_name required for bank"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "method must be crypto or bank"})
		return
	}
	w, err := h.withdrawalService.Request(userID, service.WithdrawalRequest{
		AmountUSD:     amount,
		Method:        req.Method,
		WalletAddress: req.WalletAddress,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "withdrawal requested",
		"withdrawal": w,
	})
}

func (h *WithdrawalHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	withdrawals, err := h.withdrawalService.ListForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

// Track looks up one of the caller's withdrawals by its transaction id.
func (h *WithdrawalHandler) Track(c *gin.Context) {
	userID := middleware.GetUserID(c)
	w, err := h.withdrawalService.TrackByTransactionID(userID, c.Param("txid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

func (h *WithdrawalHandler) Limits(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limits, err := h.withdrawalService.Limits(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, limits)
}
