package handler

import (
	"net/http"
	"strconv"

	"apexmine/internal/middleware"
	"apexmine/internal/repository"
	"apexmine/internal/service"

	"github.com/gin-gonic/gin"
)

type MiningHandler struct {
	miningService *service.MiningService
	tierRepo      *repository.TierRepository
}

func NewMiningHandler(miningService *service.MiningService, tierRepo *repository.TierRepository) *MiningHandler {
	return &MiningHandler{miningService: miningService, tierRepo: tierRepo}
}

// Claim credits today's yield, or 429 with the remaining cooldown.
func (h *MiningHandler) Claim(c *gin.Context) {
	userID := middleware.GetUserID(c)
	amount, err := h.miningService.Claim(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "mining reward claimed",
		"amount_usd": amount,
	})
}

func (h *MiningHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)
	st, err := h.miningService.Status(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *MiningHandler) Earnings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	earnings, err := h.miningService.Earnings(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

// Tiers is the public plan catalog.
func (h *MiningHandler) Tiers(c *gin.Context) {
	tiers, err := h.tierRepo.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}
