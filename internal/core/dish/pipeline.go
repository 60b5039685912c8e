package dish

import (
	"context"
	"sort"
	"strings"

	"dish-finder/internal/core/places"
	"dish-finder/internal/pkg/common"

	"go.uber.org/zap"
)

const defaultRadiusMeters = 5000

// PipelineService 管線編排器：串接分析、搜尋、補齊與排名四個階段。
// 各階段的錯誤策略不同：來源分析是 best-effort，排名是硬性失敗。
type PipelineService struct {
	profiler *ProfilerService
	locator  *LocatorService
	enricher *EnricherService
	ranker   *RankerService
	photoURL func(photoRef string, maxWidth int) string
}

// NewPipelineService 創建管線編排器。
// photoURL 可為 nil，此時結果不帶照片網址。
func NewPipelineService(profiler *ProfilerService, locator *LocatorService, enricher *EnricherService, ranker *RankerService, photoURL func(string, int) string) *PipelineService {
	return &PipelineService{
		profiler: profiler,
		locator:  locator,
		enricher: enricher,
		ranker:   ranker,
		photoURL: photoURL,
	}
}

// Search 執行完整的相似餐廳搜尋管線
func (s *PipelineService) Search(ctx context.Context, query Query) (*SearchResult, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	if query.SearchRadiusMeters <= 0 {
		query.SearchRadiusMeters = defaultRadiusMeters
	}

	result := &SearchResult{
		Restaurants:      []RankedResult{},
		SearchLocation:   places.Location{Lat: query.Latitude, Lng: query.Longitude},
		SearchRadius:     query.SearchRadiusMeters,
		OriginalDish:     query.DishName,
		SourceRestaurant: query.Origin.Name,
	}

	// 階段一：來源菜色分析（best-effort，失敗只記警告）
	profile, err := s.profiler.BuildProfile(ctx, query.DishName, query.Origin.Name)
	if err != nil {
		common.LogWarn("來源菜色分析失敗，不帶輪廓繼續",
			zap.String("dish", query.DishName),
			zap.String("origin", query.Origin.Name),
			zap.Error(err),
		)
		profile = nil
	}
	result.DishProfile = profile

	// 階段二：候選搜尋
	cuisineType := ""
	if profile != nil {
		cuisineType = profile.CuisineType
	}
	candidates, err := s.locator.FindCandidates(ctx, query.DishName, cuisineType, query.Latitude, query.Longitude, query.SearchRadiusMeters)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		result.Note = "no restaurants found near this location"
		return result, nil
	}

	// 階段三：詳細資料補齊＋來源餐廳排除
	enriched := s.enricher.Enrich(ctx, candidates, query.Origin.Name)
	if len(enriched) == 0 {
		result.Note = "no restaurant data available for this search"
		return result, nil
	}

	// 階段四：批次排名（解析失敗直接讓請求失敗）
	verdicts, err := s.ranker.Rank(ctx, enriched, query.DishName, profile)
	if err != nil {
		return nil, err
	}

	// 合併、排序、截斷
	ranked := make([]RankedResult, len(enriched))
	for i := range enriched {
		ranked[i] = RankedResult{
			EnrichedRestaurant: enriched[i],
			Verdict:            verdicts[i],
		}
		if s.photoURL != nil {
			for _, ref := range enriched[i].PhotoRefs {
				ranked[i].PhotoURLs = append(ranked[i].PhotoURLs, s.photoURL(ref, 400))
			}
		}
	}
	sortRanked(ranked)
	if len(ranked) > maxRankedResults {
		ranked = ranked[:maxRankedResults]
	}
	result.Restaurants = ranked

	return result, nil
}

// validateQuery 驗證輸入，缺少菜名或座標時不發任何上游請求
func validateQuery(query Query) error {
	if strings.TrimSpace(query.DishName) == "" {
		return common.NewValidationError("dish name is required")
	}
	if query.Latitude == 0 && query.Longitude == 0 {
		return common.NewValidationError("search location is required")
	}
	return nil
}

// sortRanked 主鍵 verdict 信心降序，次鍵餐廳評分降序（缺評分視為 0）
func sortRanked(ranked []RankedResult) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Verdict.Confidence != ranked[j].Verdict.Confidence {
			return ranked[i].Verdict.Confidence > ranked[j].Verdict.Confidence
		}
		return ranked[i].Rating > ranked[j].Rating
	})
}
