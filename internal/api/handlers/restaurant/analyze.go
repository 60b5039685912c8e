package restaurant

import (
	"net/http"

	"dish-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyzeDishRequest 菜色分析請求
type AnalyzeDishRequest struct {
	DishName          string `json:"dishName" binding:"required"`       // 菜色名稱
	RestaurantName    string `json:"restaurantName" binding:"required"` // 餐廳名稱
	RestaurantAddress string `json:"restaurantAddress"`                 // 餐廳地址（可省略）
}

// HandleAnalyzeDish 產生單一菜色的自由文字分析（不做結構化解析）
func (h *Handler) HandleAnalyzeDish(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req AnalyzeDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "dishName and restaurantName are required"})
		return
	}

	common.LogInfo("開始處理菜色分析請求",
		zap.String("request_id", requestID),
		zap.String("dish", req.DishName),
		zap.String("restaurant", req.RestaurantName),
	)

	analysis, err := h.profiler.AnalyzeDish(c.Request.Context(), req.DishName, req.RestaurantName)
	if err != nil {
		common.LogError("菜色分析失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("dish", req.DishName),
		)
		c.JSON(common.ErrAIServiceError.Status, common.ErrorResponse{
			Code:    common.ErrAIServiceError.Code,
			Message: common.ErrAIServiceError.Message,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
