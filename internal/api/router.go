package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	adminHandler "dining-assistant/internal/api/handlers/admin"
	chatHandler "dining-assistant/internal/api/handlers/chat"
	"dining-assistant/internal/api/handlers/health"
	menuHandler "dining-assistant/internal/api/handlers/menu"
	"dining-assistant/internal/api/middleware"
	"dining-assistant/internal/core/assistant/queue"
	"dining-assistant/internal/core/catalog"
	chatService "dining-assistant/internal/core/chat"
	menuService "dining-assistant/internal/core/menu"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求超時，需涵蓋助理遠端呼叫的最長等待
const timeoutDuration = 60 * time.Second

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, catalogSvc *catalog.Service, menuSvc *menuService.Service, chatMgr *chatService.Manager, queueMgr *queue.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if catalogSvc == nil || menuSvc == nil || chatMgr == nil {
		common.LogError("Required services missing",
			zap.Bool("catalog_service_initialized", catalogSvc != nil),
			zap.Bool("menu_service_initialized", menuSvc != nil),
			zap.Bool("chat_manager_initialized", chatMgr != nil),
		)
		return nil, fmt.Errorf("router requires catalog, menu and chat services")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 全局中間件：設置超時和服務
	router.Use(func(c *gin.Context) {
		// 設置請求超時
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// 健康檢查與就緒檢查由上下文取得依賴
		c.Set("config", cfg)
		c.Set("catalog_service", catalogSvc)

		// 處理請求
		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/health/ready", health.ReadinessCheck)
	router.GET("/health/live", health.LivenessCheck)

	menuHandlerInstance := menuHandler.NewHandler(menuSvc, catalogSvc)
	chatHandlerInstance := chatHandler.NewHandler(chatMgr)
	adminHandlerInstance := adminHandler.NewHandler(catalogSvc, menuSvc, queueMgr, chatMgr)

	// API 路由組
	api := router.Group("/api/v1")
	{
		// 菜單相關路由
		menuGroup := api.Group("/menu")
		{
			menuGroup.GET("", menuHandlerInstance.HandleListMenu)
			menuGroup.POST("/recommendations", menuHandlerInstance.HandleRecommendations)
			menuGroup.GET("/search", menuHandlerInstance.HandleSearch)
			menuGroup.GET("/popular", menuHandlerInstance.HandlePopular)

			// 詞彙表
			menuGroup.GET("/cuisines", menuHandlerInstance.HandleCuisines)
			menuGroup.GET("/meal-types", menuHandlerInstance.HandleMealTypes)
			menuGroup.GET("/dietary-tags", menuHandlerInstance.HandleDietaryTags)
			menuGroup.GET("/allergens", menuHandlerInstance.HandleAllergens)

			// 單一項目
			itemGroup := menuGroup.Group("/items")
			{
				itemGroup.GET("/:id", menuHandlerInstance.HandleGetItem)
				itemGroup.GET("/:id/similar", menuHandlerInstance.HandleSimilar)
				itemGroup.POST("/:id/safety-check", menuHandlerInstance.HandleSafetyCheck)
			}
		}

		// 會話相關路由
		chatGroup := api.Group("/chat")
		{
			if cfg.RateLimit.Enabled {
				chatGroup.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
			}

			// 去重中間件吸收短窗口內的重複開啟請求
			chatGroup.POST("/start", middleware.Deduplication(cfg), chatHandlerInstance.HandleStart)
			chatGroup.POST("/message", chatHandlerInstance.HandleMessage)
			chatGroup.GET("/history/:session_id", chatHandlerInstance.HandleHistory)
			chatGroup.DELETE("/session/:session_id", chatHandlerInstance.HandleEnd)
		}

		// 管理路由
		adminGroup := api.Group("/admin")
		{
			adminGroup.GET("/stats", adminHandlerInstance.HandleStats)
			adminGroup.POST("/catalog/reload", adminHandlerInstance.HandleCatalogReload)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
