package dish

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dish-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// RankerService 比較排名服務。
// 對整個餐廳清單只發一次批次模型調用，輸出必須與輸入一一對應；
// 任何缺行或欄位解析失敗都是硬錯誤，直接讓整個請求失敗，
// 寧可失敗也不回傳默默錯掉的排名。
type RankerService struct {
	generator TextGenerator
}

// NewRankerService 創建比較排名服務
func NewRankerService(generator TextGenerator) *RankerService {
	return &RankerService{generator: generator}
}

var confidencePattern = regexp.MustCompile(`confidence=\s*(-?\d+)`)

// Rank 判斷每家餐廳是否供應目標菜色，回傳與輸入同序同長的 verdict 清單
func (s *RankerService) Rank(ctx context.Context, restaurants []EnrichedRestaurant, dishName string, profile *Profile) ([]Verdict, error) {
	if len(restaurants) == 0 {
		return nil, fmt.Errorf("ranker requires at least one restaurant")
	}

	prompt := buildRankingPrompt(restaurants, dishName, profile)

	response, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ranking model call failed: %w", err)
	}

	verdicts, err := parseVerdicts(response, restaurants)
	if err != nil {
		return nil, err
	}

	common.LogInfo("餐廳排名完成",
		zap.Int("restaurants", len(restaurants)),
		zap.String("dish", dishName),
	)

	return verdicts, nil
}

// buildRankingPrompt 組出單一批次提示詞：每家餐廳一個編號輪廓區塊
func buildRankingPrompt(restaurants []EnrichedRestaurant, dishName string, profile *Profile) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("I am looking for restaurants that serve the dish %q or something very similar.\n\n", dishName))

	if profile != nil {
		sb.WriteString("Profile of the original dish:\n")
		sb.WriteString(fmt.Sprintf("- Cuisine: %s\n", profile.CuisineType))
		sb.WriteString(fmt.Sprintf("- Cooking style: %s\n", profile.CookingStyle))
		if len(profile.FlavorTags) > 0 {
			sb.WriteString(fmt.Sprintf("- Flavors: %s\n", strings.Join(profile.FlavorTags, ", ")))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Candidate restaurants:\n\n")
	for i, restaurant := range restaurants {
		sb.WriteString(fmt.Sprintf("Restaurant %d: %s\n", i+1, restaurant.Name))
		dishes := restaurant.MenuInsight.Dishes
		if len(dishes) > 5 {
			dishes = dishes[:5]
		}
		if len(dishes) > 0 {
			sb.WriteString(fmt.Sprintf("  Menu items from reviews: %s\n", strings.Join(dishes, "; ")))
		}
		if len(restaurant.TasteProfile.Flavors) > 0 {
			sb.WriteString(fmt.Sprintf("  Flavors: %s\n", strings.Join(restaurant.TasteProfile.Flavors, ", ")))
		}
		if restaurant.TasteProfile.Style != "" {
			sb.WriteString(fmt.Sprintf("  Style: %s\n", restaurant.TasteProfile.Style))
		}
		if len(restaurant.Types) > 0 {
			sb.WriteString(fmt.Sprintf("  Type tags: %s\n", strings.Join(restaurant.Types, ", ")))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf(`For EVERY restaurant above, in order, output exactly one line of this form:
Restaurant <i>: hasExact=<true|false>, hasSimilar=<true|false>, confidence=<0-100>, reason=<free text, at most 15 words>

There must be exactly %d lines, one per restaurant, no other text.`, len(restaurants)))

	return sb.String()
}

// parseVerdicts 逐一定位每家餐廳的結果行並萃取欄位。
// 缺行或欄位無法萃取時回傳具名錯誤，附上餐廳名稱與行內容。
func parseVerdicts(response string, restaurants []EnrichedRestaurant) ([]Verdict, error) {
	lines := strings.Split(response, "\n")
	verdicts := make([]Verdict, 0, len(restaurants))

	for i, restaurant := range restaurants {
		marker := fmt.Sprintf("Restaurant %d:", i+1)

		var line string
		for _, candidate := range lines {
			if strings.Contains(candidate, marker) {
				line = candidate
				break
			}
		}
		if line == "" {
			return nil, fmt.Errorf("ranking response is missing the line for restaurant %d (%s)", i+1, restaurant.Name)
		}

		verdict, err := parseVerdictLine(line)
		if err != nil {
			return nil, fmt.Errorf("ranking line for restaurant %d (%s) is malformed: %w (line: %q)", i+1, restaurant.Name, err, line)
		}
		verdicts = append(verdicts, verdict)
	}

	return verdicts, nil
}

// parseVerdictLine 萃取單行的四個欄位
func parseVerdictLine(line string) (Verdict, error) {
	lower := strings.ToLower(line)

	verdict := Verdict{
		HasExactDish:   strings.Contains(lower, "hasexact=true"),
		HasSimilarDish: strings.Contains(lower, "hassimilar=true"),
	}

	match := confidencePattern.FindStringSubmatch(lower)
	if match == nil {
		return Verdict{}, fmt.Errorf("confidence field not found")
	}
	confidence, err := strconv.Atoi(match[1])
	if err != nil {
		return Verdict{}, fmt.Errorf("confidence is not an integer: %w", err)
	}
	verdict.Confidence = common.ClampInt(confidence, 0, 100)

	// reason 必須在原始字串上定位：大小寫折疊可能改變位元組長度，
	// 小寫副本的偏移量套回原始字串會錯位
	idx := strings.Index(line, "reason=")
	if idx < 0 {
		return Verdict{}, fmt.Errorf("reason field not found")
	}
	reason := strings.TrimSpace(line[idx+len("reason="):])
	if reason == "" {
		return Verdict{}, fmt.Errorf("reason field is empty")
	}
	verdict.Reasoning = reason

	return verdict, nil
}
