package dish

import (
	"context"

	"dish-finder/internal/core/places"
)

// 管線各階段的上限，對齊原始行為：限制上游 API 成本與延遲
const (
	maxResultsPerQuery = 5  // 單一文字查詢保留的結果數
	maxCandidates      = 12 // 合併去重後保留的候選餐廳數
	maxEnriched        = 8  // 實際抓取詳細資料的候選數
	maxMinerReviews    = 10 // 菜單挖掘使用的評論數
	maxTasteReviews    = 8  // 口味分析使用的評論數
	maxDishes          = 15 // 單一餐廳保留的菜色數
	maxRankedResults   = 15 // 最終回傳的餐廳數

	// 前端未填地址時送來的哨兵值，視為沒有來源餐廳
	AddressNotSpecified = "address not specified"
)

// TextGenerator 文字生成服務介面，測試時以假實作替換
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// PlaceSearcher 地點搜尋服務介面
type PlaceSearcher interface {
	TextSearch(ctx context.Context, query string, lat, lng float64, radiusMeters int) ([]places.Place, error)
	GetDetails(ctx context.Context, placeID string) (*places.Details, error)
}

// OriginRestaurant 使用者吃到這道菜的來源餐廳
type OriginRestaurant struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Query 單次搜尋請求，整條管線共用、不可變
type Query struct {
	DishName           string           `json:"dish_name"`
	Origin             OriginRestaurant `json:"origin_restaurant"`
	Latitude           float64          `json:"latitude"`
	Longitude          float64          `json:"longitude"`
	SearchRadiusMeters int              `json:"search_radius_meters"`
}

// Profile 來源菜色的結構化風味輪廓
type Profile struct {
	RawAnalysis  string   `json:"raw_analysis"`
	CuisineType  string   `json:"cuisine_type"`
	FlavorTags   []string `json:"flavor_tags"`
	CookingStyle string   `json:"cooking_style"`
}

// MenuInsight 從評論中挖掘出的菜單資訊
type MenuInsight struct {
	Dishes     []string `json:"dishes"`
	Confidence int      `json:"confidence"`
}

// TasteProfile 從評論推斷的餐廳口味輪廓
type TasteProfile struct {
	Flavors     []string `json:"flavors"`
	Style       string   `json:"style"`
	Textures    []string `json:"textures,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
	Confidence  int      `json:"confidence"`
}

// EnrichedRestaurant 候選餐廳加上詳細資料與評論衍生資訊
type EnrichedRestaurant struct {
	places.Place
	Phone        string       `json:"phone,omitempty"`
	Website      string       `json:"website,omitempty"`
	ReviewTexts  []string     `json:"review_texts,omitempty"`
	MenuInsight  MenuInsight  `json:"menu_insight"`
	TasteProfile TasteProfile `json:"taste_profile"`
}

// Verdict 模型對單一餐廳是否供應目標菜色的判斷
type Verdict struct {
	HasExactDish   bool   `json:"has_exact_dish"`
	HasSimilarDish bool   `json:"has_similar_dish"`
	Confidence     int    `json:"confidence"`
	Reasoning      string `json:"reasoning"`
}

// RankedResult 排名後的最終結果
type RankedResult struct {
	EnrichedRestaurant
	Verdict   Verdict  `json:"verdict"`
	PhotoURLs []string `json:"photo_urls,omitempty"`
}

// SearchResult 管線的最終輸出
type SearchResult struct {
	Restaurants      []RankedResult  `json:"restaurants"`
	SearchLocation   places.Location `json:"search_location"`
	SearchRadius     int             `json:"search_radius"`
	OriginalDish     string          `json:"original_dish"`
	SourceRestaurant string          `json:"source_restaurant,omitempty"`
	DishProfile      *Profile        `json:"dish_profile,omitempty"`
	Note             string          `json:"note,omitempty"`
}
