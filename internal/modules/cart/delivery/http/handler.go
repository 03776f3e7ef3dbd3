package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirasbazaar/economy/internal/modules/cart/dto"
	cartService "github.com/mirasbazaar/economy/internal/modules/cart/service"
	"github.com/mirasbazaar/economy/pkg/response"
	"github.com/mirasbazaar/economy/pkg/validator"
)

type CartHandler struct {
	service cartService.CartService
}

func NewCartHandler(service cartService.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) PriceCart(c *gin.Context) {
	var req dto.PriceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	pricing, err := h.service.Price(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pricing})
}
