package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirasbazaar/economy/internal/modules/achievement/dto"
	achievementService "github.com/mirasbazaar/economy/internal/modules/achievement/service"
	"github.com/mirasbazaar/economy/pkg/response"
	"github.com/mirasbazaar/economy/pkg/validator"
)

type AchievementHandler struct {
	service achievementService.AchievementService
}

func NewAchievementHandler(service achievementService.AchievementService) *AchievementHandler {
	return &AchievementHandler{service: service}
}

func (h *AchievementHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	unlocked, err := h.service.Evaluate(c.Request.Context(), req.UserID, req.Activity)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": unlocked})
}

func (h *AchievementHandler) GetUnlocked(c *gin.Context) {
	userID, err := response.PathUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ids, err := h.service.Unlocked(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ids})
}
