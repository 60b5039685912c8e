package dish

import (
	"context"
	"fmt"

	"dish-finder/internal/core/places"
	"dish-finder/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LocatorService 候選餐廳搜尋服務
type LocatorService struct {
	searcher PlaceSearcher
}

// NewLocatorService 創建候選餐廳搜尋服務
func NewLocatorService(searcher PlaceSearcher) *LocatorService {
	return &LocatorService{searcher: searcher}
}

// buildQueries 組出固定的查詢字串集合。
// 帶引號的菜名做精確比對，裸的 "restaurant" 查詢補充多樣性。
func buildQueries(dishName, cuisineType string) []string {
	queries := []string{
		fmt.Sprintf("%q restaurant", dishName),
		fmt.Sprintf("%s food", dishName),
	}
	if cuisineType != "" {
		queries = append(queries, fmt.Sprintf("%s restaurant", cuisineType))
	}
	queries = append(queries, "restaurant")
	return queries
}

// FindCandidates 併發執行所有查詢，合併結果並以 place_id 去重。
// 單一查詢失敗只貢獻空結果，不會中斷整批；零候選是合法結果。
func (s *LocatorService) FindCandidates(ctx context.Context, dishName, cuisineType string, lat, lng float64, radiusMeters int) ([]places.Place, error) {
	queries := buildQueries(dishName, cuisineType)
	resultSets := make([][]places.Place, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			found, err := s.searcher.TextSearch(gctx, query, lat, lng, radiusMeters)
			if err != nil {
				common.LogWarn("地點查詢失敗，略過該查詢",
					zap.String("query", query),
					zap.Error(err),
				)
				return nil
			}
			if len(found) > maxResultsPerQuery {
				found = found[:maxResultsPerQuery]
			}
			resultSets[i] = found
			return nil
		})
	}
	// 個別失敗都被吞掉，這裡只可能因 context 取消而出錯
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 依查詢順序合併，首次出現者保留
	seen := make(map[string]bool)
	candidates := make([]places.Place, 0, maxCandidates)
	for _, set := range resultSets {
		for _, place := range set {
			if place.PlaceID == "" || seen[place.PlaceID] {
				continue
			}
			seen[place.PlaceID] = true
			candidates = append(candidates, place)
		}
	}
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	common.LogInfo("候選餐廳搜尋完成",
		zap.Int("queries", len(queries)),
		zap.Int("candidates", len(candidates)),
	)

	return candidates, nil
}
