package dish

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dish-finder/internal/core/places"
	"dish-finder/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator 依提示詞內容分派回應，讓單一假生成器服務整條管線
func scriptedGenerator(rankLines func(prompt string) string) *fakeGenerator {
	return &fakeGenerator{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Analyze the dish"):
			return "A spicy deep-fried Southern chicken dish with a crispy cayenne crust.", nil
		case strings.Contains(prompt, "Extract dish names"):
			return `["Hot Chicken - cayenne fried chicken", "Mac and Cheese - creamy side"]`, nil
		case strings.Contains(prompt, "taste profile"):
			return `{"flavors":["spicy","crispy"],"style":"Southern","textures":["crunchy"],"specialties":["hot chicken"]}`, nil
		case strings.Contains(prompt, "I am looking for restaurants"):
			return rankLines(prompt), nil
		default:
			return "", fmt.Errorf("unexpected prompt: %s", prompt)
		}
	}}
}

// rankAllAt 為提示詞中出現的每家餐廳產生固定信心的結果行
func rankAllAt(confidence int) func(prompt string) string {
	return func(prompt string) string {
		var sb strings.Builder
		for i := 1; strings.Contains(prompt, fmt.Sprintf("Restaurant %d:", i)); i++ {
			fmt.Fprintf(&sb, "Restaurant %d: hasExact=true, hasSimilar=true, confidence=%d, reason=hot chicken in reviews\n", i, confidence)
		}
		return sb.String()
	}
}

func newTestPipeline(gen *fakeGenerator, searcher *fakeSearcher, photoURL func(string, int) string) *PipelineService {
	miner := NewMinerService(gen)
	return NewPipelineService(
		NewProfilerService(gen),
		NewLocatorService(searcher),
		NewEnricherService(searcher, miner),
		NewRankerService(gen),
		photoURL,
	)
}

func TestSearchEndToEnd(t *testing.T) {
	searcher := &fakeSearcher{
		searchFn: func(query string) ([]places.Place, error) {
			if query != "restaurant" {
				return nil, nil
			}
			return []places.Place{
				makePlace("p1", "The Golden Spoon", 4.5),
				makePlace("p2", "Smoke & Ember", 4.2),
			}, nil
		},
		detailsFn: func(placeID string) (*places.Details, error) {
			return &places.Details{
				PlaceID: placeID,
				Phone:   "512-555-0100",
				Reviews: makeReviews(4),
			}, nil
		},
	}
	gen := scriptedGenerator(rankAllAt(85))
	pipeline := newTestPipeline(gen, searcher, nil)

	result, err := pipeline.Search(context.Background(), Query{
		DishName:  "Nashville Hot Chicken",
		Origin:    OriginRestaurant{Name: "Hattie B's", Address: "112 19th Ave S, Nashville"},
		Latitude:  36.15,
		Longitude: -86.78,
	})
	require.NoError(t, err)

	assert.Equal(t, "Nashville Hot Chicken", result.OriginalDish)
	assert.Equal(t, "Hattie B's", result.SourceRestaurant)
	assert.Equal(t, defaultRadiusMeters, result.SearchRadius)
	assert.Empty(t, result.Note)

	require.NotNil(t, result.DishProfile)
	assert.Equal(t, "Southern", result.DishProfile.CuisineType)
	assert.Equal(t, "deep-fried", result.DishProfile.CookingStyle)

	require.Len(t, result.Restaurants, 2)
	for _, restaurant := range result.Restaurants {
		assert.True(t, restaurant.Verdict.HasExactDish)
		assert.True(t, restaurant.Verdict.HasSimilarDish)
		assert.Equal(t, 85, restaurant.Verdict.Confidence)
		assert.NotEmpty(t, restaurant.Verdict.Reasoning)
		assert.NotEmpty(t, restaurant.MenuInsight.Dishes)
		assert.Equal(t, "Southern", restaurant.TasteProfile.Style)
	}
}

func TestSearchNoCandidates(t *testing.T) {
	gen := scriptedGenerator(rankAllAt(85))
	pipeline := newTestPipeline(gen, &fakeSearcher{}, nil)

	result, err := pipeline.Search(context.Background(), Query{
		DishName:  "Nashville Hot Chicken",
		Latitude:  36.15,
		Longitude: -86.78,
	})
	require.NoError(t, err, "zero candidates is not an error")
	assert.Empty(t, result.Restaurants)
	assert.Equal(t, "no restaurants found near this location", result.Note)
}

func TestSearchAllCandidatesExcluded(t *testing.T) {
	// 唯一的候選就是來源餐廳本身
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		if query != "restaurant" {
			return nil, nil
		}
		return []places.Place{makePlace("p1", "Hattie B's Hot Chicken", 4.6)}, nil
	}}
	gen := scriptedGenerator(rankAllAt(85))
	pipeline := newTestPipeline(gen, searcher, nil)

	result, err := pipeline.Search(context.Background(), Query{
		DishName:  "Nashville Hot Chicken",
		Origin:    OriginRestaurant{Name: "Hattie B's"},
		Latitude:  36.15,
		Longitude: -86.78,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Restaurants)
	assert.Equal(t, "no restaurant data available for this search", result.Note)
}

func TestSearchValidation(t *testing.T) {
	gen := scriptedGenerator(rankAllAt(85))
	searcher := &fakeSearcher{}
	pipeline := newTestPipeline(gen, searcher, nil)

	tests := []struct {
		name  string
		query Query
	}{
		{"missing dish name", Query{DishName: "  ", Latitude: 36.15, Longitude: -86.78}},
		{"missing location", Query{DishName: "Nashville Hot Chicken"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pipeline.Search(context.Background(), tt.query)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
		})
	}
	assert.Empty(t, searcher.recordedQueries(), "invalid queries never reach upstream")
	assert.Empty(t, gen.calls, "invalid queries never reach the model")
}

func TestSearchProfileFailureIsBestEffort(t *testing.T) {
	// 來源分析失敗時繼續搜尋，只是結果不帶輪廓
	gen := &fakeGenerator{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Analyze the dish") {
			return "", fmt.Errorf("model overloaded")
		}
		if strings.Contains(prompt, "I am looking for restaurants") {
			return "Restaurant 1: hasExact=true, hasSimilar=true, confidence=70, reason=reviews mention it", nil
		}
		return "not json", nil
	}}
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		if query != "restaurant" {
			return nil, nil
		}
		return []places.Place{makePlace("p1", "The Golden Spoon", 4.5)}, nil
	}}
	pipeline := newTestPipeline(gen, searcher, nil)

	result, err := pipeline.Search(context.Background(), Query{
		DishName:  "Nashville Hot Chicken",
		Origin:    OriginRestaurant{Name: "Hattie B's"},
		Latitude:  36.15,
		Longitude: -86.78,
	})
	require.NoError(t, err)
	assert.Nil(t, result.DishProfile)
	require.Len(t, result.Restaurants, 1)
}

func TestSearchRankFailureFailsRequest(t *testing.T) {
	gen := scriptedGenerator(func(string) string {
		return "I cannot rank these restaurants."
	})
	searcher := &fakeSearcher{
		searchFn: func(query string) ([]places.Place, error) {
			if query != "restaurant" {
				return nil, nil
			}
			return []places.Place{makePlace("p1", "The Golden Spoon", 4.5)}, nil
		},
	}
	pipeline := newTestPipeline(gen, searcher, nil)

	_, err := pipeline.Search(context.Background(), Query{
		DishName:  "Nashville Hot Chicken",
		Latitude:  36.15,
		Longitude: -86.78,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing the line for restaurant 1")
}

func TestSearchAttachesPhotoURLs(t *testing.T) {
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		if query != "restaurant" {
			return nil, nil
		}
		place := makePlace("p1", "The Golden Spoon", 4.5)
		place.PhotoRefs = []string{"ref-1", "ref-2"}
		return []places.Place{place}, nil
	}}
	gen := scriptedGenerator(rankAllAt(85))
	pipeline := newTestPipeline(gen, searcher, func(ref string, maxWidth int) string {
		return fmt.Sprintf("https://photos.example/%s?w=%d", ref, maxWidth)
	})

	result, err := pipeline.Search(context.Background(), Query{
		DishName:  "Nashville Hot Chicken",
		Latitude:  36.15,
		Longitude: -86.78,
	})
	require.NoError(t, err)
	require.Len(t, result.Restaurants, 1)
	assert.Equal(t, []string{
		"https://photos.example/ref-1?w=400",
		"https://photos.example/ref-2?w=400",
	}, result.Restaurants[0].PhotoURLs)
}

func TestSortRanked(t *testing.T) {
	ranked := []RankedResult{
		{EnrichedRestaurant: EnrichedRestaurant{Place: makePlace("p1", "Low", 4.8)}, Verdict: Verdict{Confidence: 40}},
		{EnrichedRestaurant: EnrichedRestaurant{Place: makePlace("p2", "High", 3.9)}, Verdict: Verdict{Confidence: 90}},
		{EnrichedRestaurant: EnrichedRestaurant{Place: makePlace("p3", "Tie low rating", 4.0)}, Verdict: Verdict{Confidence: 70}},
		{EnrichedRestaurant: EnrichedRestaurant{Place: makePlace("p4", "Tie high rating", 4.6)}, Verdict: Verdict{Confidence: 70}},
	}

	sortRanked(ranked)

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"High", "Tie high rating", "Tie low rating", "Low"}, names)
}
