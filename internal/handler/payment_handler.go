package handler

import (
	"net/http"
	"strconv"

	"apexmine/internal/domain"
	"apexmine/internal/middleware"
	"apexmine/internal/repository"
	"apexmine/internal/service"
	"apexmine/pkg/bankverify"
	"apexmine/pkg/cloudinary"
	"apexmine/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler covers the money-in side: tier deposits, the one-time
// withdrawal fee, payment settings and bank account verification.
type PaymentHandler struct {
	depositService    *service.DepositService
	withdrawalService *service.WithdrawalService
	settingRepo       *repository.SettingRepository
	uploads           cloudinary.Client
	bankVerify        *bankverify.Client
	log               *logger.Logger
}

func NewPaymentHandler(
	depositService *service.DepositService,
	withdrawalService *service.WithdrawalService,
	settingRepo *repository.SettingRepository,
	uploads cloudinary.Client,
	bankVerify *bankverify.Client,
	log *logger.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		depositService:    depositService,
		withdrawalService: withdrawalService,
		settingRepo:       settingRepo,
		uploads:           uploads,
		bankVerify:        bankVerify,
		log:               log,
	}
}

// uploadProof reads an optional multipart "proof" image and returns its
// hosted URL. A missing file is fine; an upload failure is not.
func (h *PaymentHandler) uploadProof(c *gin.Context, folder string) (string, bool) {
	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return "", true
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read proof file"})
		return "", false
	}
	defer f.Close()
	url, err := h.uploads.UploadProof(c.Request.Context(), f, folder, uuid.New().String())
	if err != nil {
		h.log.WithError(err).Warn("proof upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "proof upload failed"})
		return "", false
	}
	return url, true
}

// SubmitDeposit records an upgrade payment. Multipart form: tier,
// method, optional tx_hash and proof image.
func (h *PaymentHandler) SubmitDeposit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	tier, err := strconv.Atoi(c.PostForm("tier"))
	if err != nil || tier <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tier"})
		return
	}
	method := c.PostForm("method")
	if method != domain.MethodCrypto && method != domain.MethodBank {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method must be crypto or bank"})
		return
	}
	proofURL, ok := h.uploadProof(c, "deposits")
	if !ok {
		return
	}
	d, err := h.depositService.Submit(userID, tier, method, proofURL, c.PostForm("tx_hash"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "deposit submitted for review",
		"deposit": d,
	})
}

func (h *PaymentHandler) MyDeposits(c *gin.Context) {
	userID := middleware.GetUserID(c)
	deposits, err := h.depositService.ListForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

// PaymentSettings returns where to send money: the platform wallet,
// bank account and current exchange rate.
func (h *PaymentHandler) PaymentSettings(c *gin.Context) {
	all, err := h.settingRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	rate := h.settingRepo.GetDecimal(domain.SettingUsdToNgnRate, domain.DefaultUsdToNgn)
	c.JSON(http.StatusOK, gin.H{
		"usdt_wallet":    all[domain.SettingUsdtWallet],
		"bank_name":      all[domain.SettingBankName],
		"account_name":   all[domain.SettingAccountName],
		"account_number": all[domain.SettingAccountNumber],
		"support_url":    all[domain.SettingSupportURL],
		"usd_to_ngn":     rate,
	})
}

func (h *PaymentHandler) Banks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"banks": bankverify.Banks()})
}

// VerifyAccount resolves a bank account number to the holder's name.
func (h *PaymentHandler) VerifyAccount(c *gin.Context) {
	var req struct {
		AccountNumber string `json:"account_number" binding:"required,len=10"`
		BankCode      string `json:"bank_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.bankVerify.Resolve(c.Request.Context(), req.AccountNumber, req.BankCode)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PayFee submits the one-time withdrawal fee payment. Multipart form:
// method, optional tx_hash and proof image.
func (h *PaymentHandler) PayFee(c *gin.Context) {
	userID := middleware.GetUserID(c)
	method := c.PostForm("method")
	if method != domain.MethodCrypto && method != domain.MethodBank {
		c.JSON(http.StatusBadRequest, gin.H{"error": "method must be crypto or bank"})
		return
	}
	proofURL, ok := h.uploadProof(c, "fee_payments")
	if !ok {
		return
	}
	p, err := h.withdrawalService.PayFee(userID, method, proofURL, c.PostForm("tx_hash"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "fee payment submitted for review",
		"fee_payment": p,
	})
}

func (h *PaymentHandler) MyFeePayments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	payments, err := h.withdrawalService.ListFeePaymentsForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_payments": payments})
}
