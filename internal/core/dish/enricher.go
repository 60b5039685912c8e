package dish

import (
	"context"
	"strings"
	"sync"

	"dish-finder/internal/core/places"
	"dish-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// EnricherService 候選餐廳詳細資料補齊服務
type EnricherService struct {
	searcher PlaceSearcher
	miner    *MinerService
}

// NewEnricherService 創建詳細資料補齊服務
func NewEnricherService(searcher PlaceSearcher, miner *MinerService) *EnricherService {
	return &EnricherService{
		searcher: searcher,
		miner:    miner,
	}
}

// Enrich 併發補齊每個候選的電話、網站、評論與評論衍生資訊。
// 最多處理前 maxEnriched 個候選；單一候選失敗只會從結果中消失，
// 不會中斷整批。結果依固定索引收集後再過濾空槽。
func (s *EnricherService) Enrich(ctx context.Context, candidates []places.Place, originName string) []EnrichedRestaurant {
	if len(candidates) > maxEnriched {
		candidates = candidates[:maxEnriched]
	}

	if len(candidates) == 0 {
		return []EnrichedRestaurant{}
	}

	// 依固定索引收集，完成順序不影響結果
	slots := make([]*EnrichedRestaurant, len(candidates))
	var wg sync.WaitGroup
	for i, candidate := range candidates {
		i, candidate := i, candidate
		wg.Add(1)
		go func() {
			defer wg.Done()
			slots[i] = s.enrichOne(ctx, candidate)
		}()
	}
	wg.Wait()

	// 過濾失敗槽位，並排除與來源餐廳同名的候選
	enriched := make([]EnrichedRestaurant, 0, len(slots))
	for _, slot := range slots {
		if slot == nil {
			continue
		}
		if isOriginRestaurant(slot.Name, originName) {
			common.LogDebug("排除來源餐廳本身", zap.String("name", slot.Name))
			continue
		}
		enriched = append(enriched, *slot)
	}

	common.LogInfo("候選餐廳資料補齊完成",
		zap.Int("candidates", len(candidates)),
		zap.Int("enriched", len(enriched)),
	)

	return enriched
}

// enrichOne 補齊單一候選；詳細資料抓取失敗時回傳 nil，由呼叫端過濾
func (s *EnricherService) enrichOne(ctx context.Context, candidate places.Place) *EnrichedRestaurant {
	details, err := s.searcher.GetDetails(ctx, candidate.PlaceID)
	if err != nil {
		common.LogWarn("候選餐廳詳細資料抓取失敗，捨棄該候選",
			zap.String("place_id", candidate.PlaceID),
			zap.String("name", candidate.Name),
			zap.Error(err),
		)
		return nil
	}

	if len(details.Types) > 0 {
		candidate.Types = details.Types
	}

	reviewTexts := make([]string, 0, len(details.Reviews))
	for _, review := range details.Reviews {
		reviewTexts = append(reviewTexts, review.Text)
	}

	return &EnrichedRestaurant{
		Place:        candidate,
		Phone:        details.Phone,
		Website:      details.Website,
		ReviewTexts:  reviewTexts,
		MenuInsight:  s.miner.ExtractMenu(ctx, details.Reviews),
		TasteProfile: s.miner.ProfileTaste(ctx, candidate.Name, details.Reviews),
	}
}

// isOriginRestaurant 來源餐廳排除判斷：大小寫不敏感的名稱子字串比對。
// 同名連鎖的其他分店也會被排除，這是刻意沿用的行為。
func isOriginRestaurant(candidateName, originName string) bool {
	if originName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidateName), strings.ToLower(originName))
}
