package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirasbazaar/economy/internal/modules/redemption/dto"
	redemptionService "github.com/mirasbazaar/economy/internal/modules/redemption/service"
	"github.com/mirasbazaar/economy/pkg/response"
	"github.com/mirasbazaar/economy/pkg/validator"
)

type RedemptionHandler struct {
	service redemptionService.RedemptionService
}

func NewRedemptionHandler(service redemptionService.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{service: service}
}

func (h *RedemptionHandler) Quote(c *gin.Context) {
	var req dto.RedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *RedemptionHandler) Commit(c *gin.Context) {
	var req dto.RedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.Commit(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}
