package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mirasbazaar/economy/internal/economy"
	ledgerService "github.com/mirasbazaar/economy/internal/modules/ledger/service"
	searchService "github.com/mirasbazaar/economy/internal/modules/search/service"
	statService "github.com/mirasbazaar/economy/internal/modules/stat/service"
	"github.com/mirasbazaar/economy/pkg/response"
)

type StatHandler struct {
	service   statService.StatService
	ledger    ledgerService.LedgerService
	searchSvc searchService.LedgerSearchService
	rules     *economy.Rules
}

func NewStatHandler(service statService.StatService, ledger ledgerService.LedgerService, searchSvc searchService.LedgerSearchService, rules *economy.Rules) *StatHandler {
	return &StatHandler{
		service:   service,
		ledger:    ledger,
		searchSvc: searchSvc,
		rules:     rules,
	}
}

func (h *StatHandler) GetCirculation(c *gin.Context) {
	circulation, err := h.service.Circulation(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": circulation})
}

func (h *StatHandler) GetLevelDistribution(c *gin.Context) {
	distribution, err := h.service.LevelDistribution(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": distribution})
}

func (h *StatHandler) GetLeaderboard(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "10")
	limit, _ := strconv.Atoi(limitStr)

	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	leaderboard, err := h.service.TopUsers(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leaderboard})
}

// AuditUser verifies that the cached balances still equal the sum of the
// user's ledger history. A mismatch is a ledger bug, surfaced as 500.
func (h *StatHandler) AuditUser(c *gin.Context) {
	userID, err := response.PathUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.ledger.Reconcile(c.Request.Context(), userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ledger reconciled"})
}

// GetEconomyConfig exposes the active rule tables, read-only.
func (h *StatHandler) GetEconomyConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.rules})
}

func (h *StatHandler) GetSearchToken(c *gin.Context) {
	if h.searchSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	token, err := h.searchSvc.GenerateSearchToken()
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
