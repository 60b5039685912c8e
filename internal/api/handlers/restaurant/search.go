package restaurant

import (
	"net/http"
	"strconv"

	"dish-finder/internal/core/dish"
	"dish-finder/internal/core/places"
	"dish-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NearbyRequest 相似餐廳搜尋請求
type NearbyRequest struct {
	Dish       string `json:"dish" binding:"required"` // 目標菜色名稱
	Restaurant struct {
		Name    string `json:"name"`    // 來源餐廳名稱
		Address string `json:"address"` // 來源餐廳地址
	} `json:"restaurant"`
	Latitude  *float64 `json:"latitude" binding:"required"`  // 搜尋中心緯度
	Longitude *float64 `json:"longitude" binding:"required"` // 搜尋中心經度
	Radius    int      `json:"radius"`                       // 搜尋半徑（公尺，可省略）
}

// Handler 餐廳搜尋處理程序
type Handler struct {
	pipeline     *dish.PipelineService
	profiler     *dish.ProfilerService
	placesClient *places.Client
}

// NewHandler 創建餐廳搜尋處理程序
func NewHandler(pipeline *dish.PipelineService, profiler *dish.ProfilerService, placesClient *places.Client) *Handler {
	return &Handler{
		pipeline:     pipeline,
		profiler:     profiler,
		placesClient: placesClient,
	}
}

// HandleNearby 搜尋附近可能供應目標菜色的餐廳
func (h *Handler) HandleNearby(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req NearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "dish and location are required"})
		return
	}

	// 上游金鑰缺失是設定錯誤，直接以 500 回報
	if !h.placesClient.Enabled() {
		common.LogError("地點搜尋 API Key 未設定",
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrMissingPlacesKey.Status, common.ErrorResponse{
			Code:    common.ErrMissingPlacesKey.Code,
			Message: common.ErrMissingPlacesKey.Message,
		})
		return
	}

	common.LogInfo("開始處理相似餐廳搜尋請求",
		zap.String("request_id", requestID),
		zap.String("dish", req.Dish),
		zap.String("origin", req.Restaurant.Name),
		zap.Float64("lat", *req.Latitude),
		zap.Float64("lng", *req.Longitude),
	)

	query := dish.Query{
		DishName: req.Dish,
		Origin: dish.OriginRestaurant{
			Name:    req.Restaurant.Name,
			Address: req.Restaurant.Address,
		},
		Latitude:           *req.Latitude,
		Longitude:          *req.Longitude,
		SearchRadiusMeters: req.Radius,
	}

	result, err := h.pipeline.Search(c.Request.Context(), query)
	if err != nil {
		if common.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		common.LogError("相似餐廳搜尋失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("dish", req.Dish),
		)
		c.JSON(common.ErrRankingFailed.Status, common.ErrorResponse{
			Code:    common.ErrRankingFailed.Code,
			Message: common.ErrRankingFailed.Message,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants":      result.Restaurants,
		"searchLocation":   result.SearchLocation,
		"searchRadius":     result.SearchRadius,
		"originalDish":     result.OriginalDish,
		"sourceRestaurant": result.SourceRestaurant,
		"dishProfile":      result.DishProfile,
		"note":             result.Note,
	})
}

// HandleNearbyDemo 降級示範路徑：地點整合不可用時回傳固定的示範清單
func (h *Handler) HandleNearbyDemo(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if c.Query("lat") == "" || c.Query("lng") == "" || errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants":    demoRestaurants(),
		"searchLocation": places.Location{Lat: lat, Lng: lng},
		"note":           "demo data: places integration is unavailable",
	})
}

// demoRestaurants 固定的示範餐廳清單
func demoRestaurants() []places.Place {
	return []places.Place{
		{
			PlaceID:  "demo-1",
			Name:     "The Golden Spoon",
			Address:  "112 Main St",
			Rating:   4.5,
			Location: places.Location{Lat: 30.2672, Lng: -97.7431},
			Types:    []string{"restaurant", "food"},
		},
		{
			PlaceID:  "demo-2",
			Name:     "Smoke & Ember BBQ",
			Address:  "47 Brazos Ave",
			Rating:   4.2,
			Location: places.Location{Lat: 30.2655, Lng: -97.7402},
			Types:    []string{"restaurant", "food"},
		},
		{
			PlaceID:  "demo-3",
			Name:     "Casa de Maiz",
			Address:  "890 Congress Ave",
			Rating:   4.7,
			Location: places.Location{Lat: 30.2690, Lng: -97.7465},
			Types:    []string{"restaurant", "food"},
		},
	}
}
