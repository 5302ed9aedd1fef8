package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dining-assistant/internal/api"
	"dining-assistant/internal/core/assistant"
	"dining-assistant/internal/core/assistant/queue"
	"dining-assistant/internal/core/catalog"
	catalogCache "dining-assistant/internal/core/catalog/cache"
	"dining-assistant/internal/core/chat"
	"dining-assistant/internal/core/menu"
	menuCache "dining-assistant/internal/core/menu/cache"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.Bool("assistant_enabled", cfg.Assistant.Enabled),
		zap.String("assistant_base_url", cfg.Assistant.BaseURL),
		zap.String("catalog_source_url", cfg.Catalog.SourceURL),
		zap.String("catalog_source_path", cfg.Catalog.SourcePath),
	)

	// 初始化目錄原始負載緩存（可選，失敗時直接退化為直接抓取）
	payloadCache, err := catalogCache.NewService(&cfg.Redis)
	if err != nil {
		common.LogWarn("Redis payload cache unavailable, continuing without it", zap.Error(err))
		payloadCache = nil
	}
	if payloadCache != nil {
		defer payloadCache.Close()
	}

	// 初始化目錄服務並進行首次載入
	catalogSource := catalog.NewSource(cfg)
	catalogService := catalog.NewService(cfg, catalogSource, payloadCache)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Catalog.Timeout)
	if err := catalogService.Load(loadCtx); err != nil {
		common.LogWarn("Initial catalog load failed, starting with empty catalog", zap.Error(err))
	}
	cancelLoad()

	// 初始化結果緩存
	resultCache := menuCache.NewManager(cfg)
	// 只在快取開啟但初始化失敗時才 Fatal
	if cfg.Cache.Enabled && resultCache == nil {
		common.LogFatal("Failed to initialize result cache")
	}
	defer resultCache.Close()

	// 初始化菜單服務
	menuService := menu.NewService(cfg, catalogService, resultCache)

	// 初始化助理客戶端與出站隊列
	assistantClient := assistant.NewClient(cfg)
	queueManager := queue.NewManager(cfg, assistantClient)
	defer queueManager.Close()

	// 初始化會話管理器
	chatManager := chat.NewManager(cfg, assistantClient, queueManager, menuService)
	defer chatManager.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, catalogService, menuService, chatManager, queueManager)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
