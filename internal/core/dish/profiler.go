package dish

import (
	"context"
	"fmt"
	"strings"

	"dish-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// 固定詞彙表：從自由文字分析中以子字串比對萃取結構化欄位。
// 菜系順序即比對優先順序，先命中者勝出。
var (
	cuisineVocabulary = []string{
		"Mexican", "Chinese", "Italian", "Japanese", "Thai", "Indian",
		"Korean", "Vietnamese", "Mediterranean", "French", "Greek",
		"Spanish", "Cajun", "Southern", "Barbecue", "American",
	}

	flavorVocabulary = []string{
		"spicy", "sweet", "savory", "smoky", "tangy", "sour", "salty",
		"rich", "creamy", "crispy", "crunchy", "garlicky", "umami",
		"buttery", "herbal", "earthy", "citrusy", "nutty",
	}

	cookingVocabulary = []string{
		"deep-fried", "stir-fried", "fried", "grilled", "roasted",
		"baked", "smoked", "braised", "steamed", "sauteed", "seared",
		"slow-cooked", "charred",
	}
)

const (
	defaultCuisine      = "American"
	defaultCookingStyle = "prepared"
)

// ProfilerService 來源菜色分析服務
type ProfilerService struct {
	generator TextGenerator
}

// NewProfilerService 創建菜色分析服務
func NewProfilerService(generator TextGenerator) *ProfilerService {
	return &ProfilerService{generator: generator}
}

// AnalyzeDish 針對特定餐廳的特定菜色產生自由文字分析
func (s *ProfilerService) AnalyzeDish(ctx context.Context, dishName, restaurantName string) (string, error) {
	prompt := fmt.Sprintf(`Analyze the dish "%s" as it is served at the restaurant "%s".
Describe its flavor profile, cooking method, key ingredients, and cuisine type.
Focus on what makes this specific dish at this specific restaurant distinctive.
Keep the analysis under 200 words.`, dishName, restaurantName)

	analysis, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("dish analysis failed: %w", err)
	}
	return analysis, nil
}

// BuildProfile 產生來源菜色的結構化輪廓。
// origin 餐廳名為空或為哨兵值時跳過，回傳 nil。
func (s *ProfilerService) BuildProfile(ctx context.Context, dishName, restaurantName string) (*Profile, error) {
	if restaurantName == "" || strings.EqualFold(restaurantName, AddressNotSpecified) {
		return nil, nil
	}

	analysis, err := s.AnalyzeDish(ctx, dishName, restaurantName)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		RawAnalysis:  analysis,
		CuisineType:  extractCuisine(analysis),
		FlavorTags:   extractFlavors(analysis),
		CookingStyle: extractCookingStyle(analysis),
	}

	common.LogInfo("來源菜色分析完成",
		zap.String("dish", dishName),
		zap.String("cuisine", profile.CuisineType),
		zap.Strings("flavors", profile.FlavorTags),
		zap.String("cooking_style", profile.CookingStyle),
	)

	return profile, nil
}

// extractCuisine 以子字串比對萃取菜系，先命中者勝出
func extractCuisine(analysis string) string {
	lower := strings.ToLower(analysis)
	for _, cuisine := range cuisineVocabulary {
		if strings.Contains(lower, strings.ToLower(cuisine)) {
			return cuisine
		}
	}
	return defaultCuisine
}

// extractFlavors 萃取分析文字中出現的風味詞彙
func extractFlavors(analysis string) []string {
	lower := strings.ToLower(analysis)
	tags := make([]string, 0, 4)
	for _, flavor := range flavorVocabulary {
		if strings.Contains(lower, flavor) {
			tags = append(tags, flavor)
		}
	}
	return tags
}

// extractCookingStyle 萃取烹調方式；deep-fried 等複合詞排在 fried 前，避免誤判
func extractCookingStyle(analysis string) string {
	lower := strings.ToLower(analysis)
	for _, style := range cookingVocabulary {
		if strings.Contains(lower, style) {
			return style
		}
	}
	return defaultCookingStyle
}
