package dish

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dish-finder/internal/core/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueries(t *testing.T) {
	t.Run("with cuisine", func(t *testing.T) {
		queries := buildQueries("Pad Thai", "Thai")
		assert.Equal(t, []string{
			`"Pad Thai" restaurant`,
			"Pad Thai food",
			"Thai restaurant",
			"restaurant",
		}, queries)
	})

	t.Run("without cuisine", func(t *testing.T) {
		queries := buildQueries("Pad Thai", "")
		assert.Equal(t, []string{
			`"Pad Thai" restaurant`,
			"Pad Thai food",
			"restaurant",
		}, queries)
	})
}

func TestFindCandidatesDeduplicates(t *testing.T) {
	// 每個查詢都回傳同一批地點，去重後只留一份
	searcher := &fakeSearcher{searchFn: func(string) ([]places.Place, error) {
		return []places.Place{
			makePlace("p1", "The Golden Spoon", 4.5),
			makePlace("p2", "Smoke & Ember", 4.2),
		}, nil
	}}
	svc := NewLocatorService(searcher)

	candidates, err := svc.FindCandidates(context.Background(), "Pad Thai", "Thai", 30.27, -97.74, 5000)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Len(t, searcher.recordedQueries(), 4)
}

func TestFindCandidatesCapsPerQuery(t *testing.T) {
	// 單一查詢回傳 9 筆，逐查詢上限 5 筆
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		if query != "restaurant" {
			return nil, nil
		}
		results := make([]places.Place, 9)
		for i := range results {
			results[i] = makePlace(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Place %d", i+1), 4.0)
		}
		return results, nil
	}}
	svc := NewLocatorService(searcher)

	candidates, err := svc.FindCandidates(context.Background(), "Pad Thai", "", 30.27, -97.74, 5000)
	require.NoError(t, err)
	assert.Len(t, candidates, 5)
}

func TestFindCandidatesCapsTotal(t *testing.T) {
	// 每個查詢各回傳 5 筆互不重複的地點，4 個查詢共 20 筆，合併上限 12 筆
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		results := make([]places.Place, 5)
		for i := range results {
			id := fmt.Sprintf("%s-%d", query, i+1)
			results[i] = makePlace(id, id, 4.0)
		}
		return results, nil
	}}
	svc := NewLocatorService(searcher)

	candidates, err := svc.FindCandidates(context.Background(), "Pad Thai", "Thai", 30.27, -97.74, 5000)
	require.NoError(t, err)
	assert.Len(t, candidates, maxCandidates)
}

func TestFindCandidatesToleratesQueryFailure(t *testing.T) {
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		if strings.Contains(query, "food") {
			return nil, fmt.Errorf("quota exceeded")
		}
		return []places.Place{makePlace("p-"+query, query, 4.0)}, nil
	}}
	svc := NewLocatorService(searcher)

	candidates, err := svc.FindCandidates(context.Background(), "Pad Thai", "", 30.27, -97.74, 5000)
	require.NoError(t, err, "single query failure must not fail the batch")
	assert.Len(t, candidates, 2)
}

func TestFindCandidatesAllQueriesFail(t *testing.T) {
	searcher := &fakeSearcher{searchFn: func(string) ([]places.Place, error) {
		return nil, fmt.Errorf("quota exceeded")
	}}
	svc := NewLocatorService(searcher)

	candidates, err := svc.FindCandidates(context.Background(), "Pad Thai", "", 30.27, -97.74, 5000)
	require.NoError(t, err)
	assert.Empty(t, candidates, "zero candidates is a valid outcome")
}

func TestFindCandidatesSkipsEmptyPlaceID(t *testing.T) {
	searcher := &fakeSearcher{searchFn: func(query string) ([]places.Place, error) {
		if query != "restaurant" {
			return nil, nil
		}
		return []places.Place{
			{Name: "No ID Diner"},
			makePlace("p1", "The Golden Spoon", 4.5),
		}, nil
	}}
	svc := NewLocatorService(searcher)

	candidates, err := svc.FindCandidates(context.Background(), "Pad Thai", "", 30.27, -97.74, 5000)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "p1", candidates[0].PlaceID)
}
