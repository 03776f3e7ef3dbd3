package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/entity"
	"github.com/mirasbazaar/economy/internal/modules/ledger/dto"
	ledgerService "github.com/mirasbazaar/economy/internal/modules/ledger/service"
	levelService "github.com/mirasbazaar/economy/internal/modules/level/service"
	commonDto "github.com/mirasbazaar/economy/pkg/dto"
	"github.com/mirasbazaar/economy/pkg/response"
	"github.com/mirasbazaar/economy/pkg/validator"
)

type LedgerHandler struct {
	service ledgerService.LedgerService
	rules   *economy.Rules
}

func NewLedgerHandler(service ledgerService.LedgerService, rules *economy.Rules) *LedgerHandler {
	return &LedgerHandler{service: service, rules: rules}
}

func (h *LedgerHandler) GrantPoints(c *gin.Context) {
	var req dto.GrantPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	entry, err := h.service.Grant(c.Request.Context(), req.UserID, req.ActionName, req.ReferenceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": toEntryResponse(entry)})
}

func (h *LedgerHandler) SpendPoints(c *gin.Context) {
	var req dto.SpendPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	entry, err := h.service.Spend(c.Request.Context(), req.UserID, entity.Currency(req.Currency), req.Amount)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": toEntryResponse(entry)})
}

func (h *LedgerHandler) GetBalances(c *gin.Context) {
	userID, err := response.PathUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	balance, err := h.service.Balances(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	resp := dto.BalancesResponse{
		UserID:        userID,
		SocialPoints:  balance.SocialPoints,
		MeaningPoints: balance.MeaningPoints,
		Level:         levelService.StatusFor(h.rules.LevelThresholds, balance.SocialPoints, balance.MeaningPoints),
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *LedgerHandler) GetHistory(c *gin.Context) {
	userID, err := response.PathUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter commonDto.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	var currency *entity.Currency
	if filter.Currency != "" {
		cur := entity.Currency(filter.Currency)
		currency = &cur
	}

	entries, err := h.service.History(c.Request.Context(), userID, currency)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	responses := make([]dto.LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toEntryResponse(&entries[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

func toEntryResponse(entry *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          entry.ID,
		ActionName:  entry.ActionName,
		Points:      entry.Points,
		Currency:    string(entry.Currency),
		ReferenceID: entry.ReferenceID,
		CreatedAt:   entry.CreatedAt,
	}
}
