package dish

import (
	"context"
	"fmt"
	"strings"

	"dish-finder/internal/core/places"
	"dish-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// MinerService 評論挖掘服務：從評論文字萃取菜單與口味輪廓。
// 這兩個操作都是 best-effort，任何模型或解析失敗都降級為低信心預設值。
type MinerService struct {
	generator TextGenerator
}

// NewMinerService 創建評論挖掘服務
func NewMinerService(generator TextGenerator) *MinerService {
	return &MinerService{generator: generator}
}

// formatReviews 將評論組成提示詞用的編號清單
func formatReviews(reviews []places.Review) string {
	var sb strings.Builder
	for i, review := range reviews {
		sb.WriteString(fmt.Sprintf("%d. (rating %.0f/5) %s\n", i+1, review.Rating, review.Text))
	}
	return sb.String()
}

// ExtractMenu 從評論中萃取被具體提到的菜色。
// 空評論直接回傳零信心結果，不調用模型。
func (s *MinerService) ExtractMenu(ctx context.Context, reviews []places.Review) MenuInsight {
	if len(reviews) == 0 {
		return MenuInsight{Dishes: []string{}, Confidence: 0}
	}
	if len(reviews) > maxMinerReviews {
		reviews = reviews[:maxMinerReviews]
	}

	prompt := fmt.Sprintf(`Extract dish names from these restaurant reviews.
Only include dishes that are concretely mentioned in the review text, with a brief description.
Ignore generic mentions like "the food" or "their dishes".
Return ONLY a JSON array of strings, for example: ["Pad Thai - stir-fried rice noodles", "Green Curry - coconut milk curry"].

Reviews:
%s`, formatReviews(reviews))

	response, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		common.LogWarn("菜單挖掘模型調用失敗，使用低信心預設值", zap.Error(err))
		return MenuInsight{Dishes: []string{}, Confidence: 10}
	}

	var dishes []string
	if err := common.ExtractJSONArray(response, &dishes); err != nil {
		common.LogWarn("菜單挖掘回應解析失敗，使用低信心預設值", zap.Error(err))
		return MenuInsight{Dishes: []string{}, Confidence: 10}
	}

	dishes = common.TruncateStrings(dishes, maxDishes)
	if len(dishes) == 0 {
		return MenuInsight{Dishes: []string{}, Confidence: 10}
	}

	confidence := len(dishes) * 10
	if confidence > 90 {
		confidence = 90
	}
	return MenuInsight{Dishes: dishes, Confidence: confidence}
}

// tasteResponse 模型回傳的口味輪廓 JSON 物件
type tasteResponse struct {
	Flavors     []string `json:"flavors"`
	Style       string   `json:"style"`
	Textures    []string `json:"textures"`
	Specialties []string `json:"specialties"`
}

// ProfileTaste 從評論推斷餐廳整體的口味輪廓
func (s *MinerService) ProfileTaste(ctx context.Context, restaurantName string, reviews []places.Review) TasteProfile {
	if len(reviews) == 0 {
		return TasteProfile{Flavors: []string{}, Style: "Unknown", Confidence: 0}
	}
	if len(reviews) > maxTasteReviews {
		reviews = reviews[:maxTasteReviews]
	}

	prompt := fmt.Sprintf(`Based on these reviews of the restaurant "%s", infer its taste profile:
flavor words, cooking styles, cuisine character, and textures mentioned or implied by reviewers.
Return ONLY a JSON object of the form:
{"flavors": ["..."], "style": "...", "textures": ["..."], "specialties": ["..."]}

Reviews:
%s`, restaurantName, formatReviews(reviews))

	response, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		common.LogWarn("口味分析模型調用失敗，使用低信心預設值",
			zap.String("restaurant", restaurantName),
			zap.Error(err),
		)
		return TasteProfile{Flavors: []string{}, Style: "Unknown", Confidence: 20}
	}

	var parsed tasteResponse
	if err := common.ExtractJSONObject(response, &parsed); err != nil {
		common.LogWarn("口味分析回應解析失敗，使用低信心預設值",
			zap.String("restaurant", restaurantName),
			zap.Error(err),
		)
		return TasteProfile{Flavors: []string{}, Style: "Unknown", Confidence: 20}
	}

	confidence := 50
	if len(reviews) > 3 {
		confidence = 80
	}
	if parsed.Style == "" {
		parsed.Style = "Unknown"
	}
	if parsed.Flavors == nil {
		parsed.Flavors = []string{}
	}

	return TasteProfile{
		Flavors:     parsed.Flavors,
		Style:       parsed.Style,
		Textures:    parsed.Textures,
		Specialties: parsed.Specialties,
		Confidence:  confidence,
	}
}
