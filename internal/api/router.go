package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dish-finder/internal/api/handlers/health"
	restaurantHandler "dish-finder/internal/api/handlers/restaurant"
	"dish-finder/internal/api/middleware"
	aiService "dish-finder/internal/core/ai/service"
	"dish-finder/internal/core/dish"
	"dish-finder/internal/core/places"
	"dish-finder/internal/infrastructure/config"
	"dish-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 整條管線最壞情況要等多次串行的模型調用，上限放寬到 120 秒
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，純 JSON 請求用不到更多
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

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
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與去重
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("places_configured", cfg.Places.APIKey != ""),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 服務
	ai, err := aiService.NewService(cfg)
	if err != nil || ai == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	// 初始化地點搜尋客戶端
	placesClient := places.NewClient(cfg)

	// 初始化管線各階段服務
	profilerSvc := dish.NewProfilerService(ai)
	locatorSvc := dish.NewLocatorService(placesClient)
	minerSvc := dish.NewMinerService(ai)
	enricherSvc := dish.NewEnricherService(placesClient, minerSvc)
	rankerSvc := dish.NewRankerService(ai)
	pipelineSvc := dish.NewPipelineService(profilerSvc, locatorSvc, enricherSvc, rankerSvc, placesClient.PhotoURL)

	common.LogInfo("Pipeline services initialized successfully",
		zap.Bool("ai_service_initialized", ai != nil),
		zap.String("environment", cfg.App.Env),
	)

	// 全局中間件：設置請求超時並注入配置
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
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
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// 業務路由
	handler := restaurantHandler.NewHandler(pipelineSvc, profilerSvc, placesClient)
	router.POST("/nearby", handler.HandleNearby)
	router.GET("/nearby", handler.HandleNearbyDemo)
	router.POST("/analyze-dish", handler.HandleAnalyzeDish)

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
