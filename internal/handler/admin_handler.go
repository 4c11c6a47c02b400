package handler

import (
	"net/http"
	"strconv"

	"apexmine/internal/domain"
	"apexmine/internal/models"
	"apexmine/internal/repository"
	"apexmine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler is the review desk: deposits, withdrawals, fee payments,
// the tier catalog and platform settings.
type AdminHandler struct {
	statsRepo         *repository.StatsRepository
	accountRepo       *repository.AccountRepository
	tierRepo          *repository.TierRepository
	settingRepo       *repository.SettingRepository
	depositService    *service.DepositService
	withdrawalService *service.WithdrawalService
	miningService     *service.MiningService
}

func NewAdminHandler(
	statsRepo *repository.StatsRepository,
	accountRepo *repository.AccountRepository,
	tierRepo *repository.TierRepository,
	settingRepo *repository.SettingRepository,
	depositService *service.DepositService,
	withdrawalService *service.WithdrawalService,
	miningService *service.MiningService,
) *AdminHandler {
	return &AdminHandler{
		statsRepo:         statsRepo,
		accountRepo:       accountRepo,
		tierRepo:          tierRepo,
		settingRepo:       settingRepo,
		depositService:    depositService,
		withdrawalService: withdrawalService,
		miningService:     miningService,
	}
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsRepo.Platform()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Users(c *gin.Context) {
	page, limit := pagination(c)
	users, total, err := h.accountRepo.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page})
}

func (h *AdminHandler) UserDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := h.accountRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// ToggleUserActive bans or reinstates an account. Inactive accounts are
// skipped by the daily distribution.
func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := h.accountRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	u.IsActive = !u.IsActive
	if err := h.accountRepo.Update(u); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *AdminHandler) Deposits(c *gin.Context) {
	page, limit := pagination(c)
	deposits, total, err := h.depositService.ListAll(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits, "total": total, "page": page})
}

func (h *AdminHandler) ApproveDeposit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		AdminNote string `json:"admin_note"`
	}
	_ = c.ShouldBindJSON(&req)
	d, err := h.depositService.Approve(id, req.AdminNote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deposit approved", "deposit": d})
}

func (h *AdminHandler) RejectDeposit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		AdminNote string `json:"admin_note"`
	}
	_ = c.ShouldBindJSON(&req)
	d, err := h.depositService.Reject(id, req.AdminNote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deposit rejected", "deposit": d})
}

// BulkApproveDeposits approves a batch; failures are reported per id.
func (h *AdminHandler) BulkApproveDeposits(c *gin.Context) {
	var req struct {
		IDs       []uint `json:"ids" binding:"required,min=1"`
		AdminNote string `json:"admin_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results := h.depositService.BulkApprove(req.IDs, req.AdminNote)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *AdminHandler) Withdrawals(c *gin.Context) {
	page, limit := pagination(c)
	withdrawals, total, err := h.withdrawalService.ListAll(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals, "total": total, "page": page})
}

func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		TxHash    string `json:"tx_hash"`
		AdminNote string `json:"admin_note"`
	}
	_ = c.ShouldBindJSON(&req)
	w, err := h.withdrawalService.Approve(id, req.TxHash, req.AdminNote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "withdrawal approved", "withdrawal": w})
}

func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		AdminNote string `json:"admin_note"`
	}
	_ = c.ShouldBindJSON(&req)
	w, err := h.withdrawalService.Reject(id, req.AdminNote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "withdrawal rejected", "withdrawal": w})
}

func (h *AdminHandler) MarkWithdrawalProcessing(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	w, err := h.withdrawalService.MarkProcessing(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "withdrawal processing", "withdrawal": w})
}

func (h *AdminHandler) FeePayments(c *gin.Context) {
	page, limit := pagination(c)
	payments, total, err := h.withdrawalService.ListAllFeePayments(c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_payments": payments, "total": total, "page": page})
}

func (h *AdminHandler) ApproveFeePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	p, err := h.withdrawalService.ApproveFee(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fee payment approved", "fee_payment": p})
}

func (h *AdminHandler) RejectFeePayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		AdminNote string `json:"admin_note"`
	}
	_ = c.ShouldBindJSON(&req)
	p, err := h.withdrawalService.RejectFee(id, req.AdminNote)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fee payment rejected", "fee_payment": p})
}

type tierRequest struct {
	TierNumber       int    `json:"tier_number" binding:"required,min=1"`
	Name             string `json:"name" binding:"required"`
	PriceUSD         string `json:"price_usd" binding:"required"`
	DailyYieldUSD    string `json:"daily_yield_usd" binding:"required"`
	DurationDays     int    `json:"duration_days"`
	WithdrawalFeeUSD string `json:"withdrawal_fee_usd" binding:"required"`
}

func (r *tierRequest) toModel() (*models.MiningTier, error) {
	price, err := decimal.NewFromString(r.PriceUSD)
	if err != nil {
		return nil, err
	}
	yield, err := decimal.NewFromString(r.DailyYieldUSD)
	if err != nil {
		return nil, err
	}
	fee, err := decimal.NewFromString(r.WithdrawalFeeUSD)
	if err != nil {
		return nil, err
	}
	return &models.MiningTier{
		TierNumber:       r.TierNumber,
		Name:             r.Name,
		PriceUSD:         price,
		DailyYieldUSD:    yield,
		DurationDays:     r.DurationDays,
		WithdrawalFeeUSD: fee,
	}, nil
}

func (h *AdminHandler) CreateTier(c *gin.Context) {
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decimal amount"})
		return
	}
	if err := h.tierRepo.Create(t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tier": t})
}

func (h *AdminHandler) UpdateTier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req tierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid decimal amount"})
		return
	}
	t.ID = id
	if err := h.tierRepo.Update(t); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tier": t})
}

func (h *AdminHandler) DeleteTier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.tierRepo.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tier deleted"})
}

func (h *AdminHandler) Settings(c *gin.Context) {
	all, err := h.settingRepo.GetAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": all})
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "setting updated"})
}

// UpdateExchangeRate validates the rate is a positive decimal before
// storing it.
func (h *AdminHandler) UpdateExchangeRate(c *gin.Context) {
	var req struct {
		UsdToNgn string `json:"usd_to_ngn" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, err := decimal.NewFromString(req.UsdToNgn)
	if err != nil || rate.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate"})
		return
	}
	if err := h.settingRepo.Set(domain.SettingUsdToNgnRate, rate.String()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rate updated", "usd_to_ngn": rate})
}

// RunDistribution triggers the daily sweep manually, for recovery when
// the scheduler was down.
func (h *AdminHandler) RunDistribution(c *gin.Context) {
	credited, skipped, err := h.miningService.DistributeDaily()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"credited": credited, "skipped": skipped})
}
