package server

import (
	"log"
	"strings"
	"time"

	"github.com/mirasbazaar/economy/internal/config"
	"github.com/mirasbazaar/economy/internal/economy"

	achievementHttp "github.com/mirasbazaar/economy/internal/modules/achievement/delivery/http"
	achievementRepo "github.com/mirasbazaar/economy/internal/modules/achievement/repository"
	achievementService "github.com/mirasbazaar/economy/internal/modules/achievement/service"

	cartHttp "github.com/mirasbazaar/economy/internal/modules/cart/delivery/http"
	cartService "github.com/mirasbazaar/economy/internal/modules/cart/service"

	ledgerHttp "github.com/mirasbazaar/economy/internal/modules/ledger/delivery/http"
	ledgerRepo "github.com/mirasbazaar/economy/internal/modules/ledger/repository"
	ledgerService "github.com/mirasbazaar/economy/internal/modules/ledger/service"

	notifHttp "github.com/mirasbazaar/economy/internal/modules/notification/delivery/http"
	notifRepo "github.com/mirasbazaar/economy/internal/modules/notification/repository"
	notifService "github.com/mirasbazaar/economy/internal/modules/notification/service"

	redemptionHttp "github.com/mirasbazaar/economy/internal/modules/redemption/delivery/http"
	redemptionService "github.com/mirasbazaar/economy/internal/modules/redemption/service"

	searchService "github.com/mirasbazaar/economy/internal/modules/search/service"

	statHttp "github.com/mirasbazaar/economy/internal/modules/stat/delivery/http"
	statService "github.com/mirasbazaar/economy/internal/modules/stat/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, rules *economy.Rules) *Server {
	// Meilisearch is optional: without it the admin search surface is off
	// but the economy itself runs unchanged.
	var searchSvc searchService.LedgerSearchService
	if meiliHost := cfg.MeiliSearchHost; meiliHost != "" {
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewLedgerSearchService(meiliClient)
	} else {
		log.Println("MEILISEARCH_HOST not set, ledger search disabled")
	}

	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient)

	ledgerRepository := ledgerRepo.NewLedgerRepository(db)
	ledgerSvc := ledgerService.NewLedgerService(ledgerRepository, rules, redisClient, notificationSvc, searchSvc)
	ledgerHandler := ledgerHttp.NewLedgerHandler(ledgerSvc, rules)

	redemptionSvc := redemptionService.NewRedemptionService(ledgerSvc, rules)
	redemptionHandler := redemptionHttp.NewRedemptionHandler(redemptionSvc)

	cartSvc := cartService.NewCartService(rules)
	cartHandler := cartHttp.NewCartHandler(cartSvc)

	unlockRepository := achievementRepo.NewUnlockRepository(db)
	achievementSvc := achievementService.NewAchievementService(unlockRepository, ledgerSvc, rules)
	achievementHandler := achievementHttp.NewAchievementHandler(achievementSvc)

	statSvc := statService.NewStatService(ledgerRepository, rules)
	statHandler := statHttp.NewStatHandler(statSvc, ledgerSvc, searchSvc, rules)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	api := router.Group("/api")
	{
		// Ledger routes
		api.POST("/points/grant", ledgerHandler.GrantPoints)
		api.POST("/points/spend", ledgerHandler.SpendPoints)
		api.GET("/users/:user_id/points", ledgerHandler.GetBalances)
		api.GET("/users/:user_id/points/history", ledgerHandler.GetHistory)

		// Checkout routes
		api.POST("/redemptions/quote", redemptionHandler.Quote)
		api.POST("/redemptions/commit", redemptionHandler.Commit)
		api.POST("/cart/price", cartHandler.PriceCart)

		// Achievement routes
		api.POST("/achievements/evaluate", achievementHandler.Evaluate)
		api.GET("/users/:user_id/achievements", achievementHandler.GetUnlocked)

		// Notification routes
		api.GET("/users/:user_id/notifications", notificationHandler.GetNotifications)
		api.GET("/users/:user_id/notifications/unread-count", notificationHandler.UnreadCount)
		api.PUT("/users/:user_id/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		api.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		api.GET("/leaderboard", statHandler.GetLeaderboard)

		// Admin routes (read-only aggregates; they never mutate balances)
		adminGroup := api.Group("/admin")
		{
			adminGroup.GET("/stats/circulation", statHandler.GetCirculation)
			adminGroup.GET("/stats/levels", statHandler.GetLevelDistribution)
			adminGroup.GET("/audit/:user_id", statHandler.AuditUser)
			adminGroup.GET("/config/economy", statHandler.GetEconomyConfig)
			adminGroup.GET("/search/token", statHandler.GetSearchToken)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
