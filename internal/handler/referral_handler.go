package handler

import (
	"net/http"

	"apexmine/internal/middleware"
	"apexmine/internal/service"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referralService *service.ReferralService
}

func NewReferralHandler(referralService *service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

func (h *ReferralHandler) Stats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	stats, err := h.referralService.Stats(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
