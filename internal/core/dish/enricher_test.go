package dish

import (
	"context"
	"fmt"
	"testing"

	"dish-finder/internal/core/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichFillsDetails(t *testing.T) {
	searcher := &fakeSearcher{detailsFn: func(placeID string) (*places.Details, error) {
		return &places.Details{
			PlaceID: placeID,
			Phone:   "512-555-0100",
			Website: "https://example.com",
			Reviews: []places.Review{{Text: "Great brisket here", Rating: 5}},
			Types:   []string{"restaurant", "bbq"},
		}, nil
	}}
	gen := &fakeGenerator{fn: func(string) (string, error) {
		return `["Brisket - smoked"]`, nil
	}}
	svc := NewEnricherService(searcher, NewMinerService(gen))

	enriched := svc.Enrich(context.Background(), []places.Place{makePlace("p1", "Smoke & Ember", 4.2)}, "")

	require.Len(t, enriched, 1)
	assert.Equal(t, "512-555-0100", enriched[0].Phone)
	assert.Equal(t, "https://example.com", enriched[0].Website)
	assert.Equal(t, []string{"Great brisket here"}, enriched[0].ReviewTexts)
	assert.Equal(t, []string{"restaurant", "bbq"}, enriched[0].Types, "details types override search types")
	assert.Equal(t, []string{"Brisket - smoked"}, enriched[0].MenuInsight.Dishes)
}

func TestEnrichCapsCandidates(t *testing.T) {
	candidates := make([]places.Place, 11)
	for i := range candidates {
		candidates[i] = makePlace(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Place %d", i+1), 4.0)
	}
	svc := NewEnricherService(&fakeSearcher{}, NewMinerService(&fakeGenerator{}))

	enriched := svc.Enrich(context.Background(), candidates, "")
	assert.Len(t, enriched, maxEnriched)
}

func TestEnrichDropsFailedCandidates(t *testing.T) {
	searcher := &fakeSearcher{detailsFn: func(placeID string) (*places.Details, error) {
		if placeID == "p2" {
			return nil, fmt.Errorf("details unavailable")
		}
		return &places.Details{PlaceID: placeID}, nil
	}}
	svc := NewEnricherService(searcher, NewMinerService(&fakeGenerator{}))

	enriched := svc.Enrich(context.Background(), []places.Place{
		makePlace("p1", "The Golden Spoon", 4.5),
		makePlace("p2", "Smoke & Ember", 4.2),
		makePlace("p3", "Casa de Maiz", 4.7),
	}, "")

	require.Len(t, enriched, 2)
	assert.Equal(t, "p1", enriched[0].PlaceID)
	assert.Equal(t, "p3", enriched[1].PlaceID, "input order survives concurrent enrichment")
}

func TestEnrichExcludesOriginRestaurant(t *testing.T) {
	svc := NewEnricherService(&fakeSearcher{}, NewMinerService(&fakeGenerator{}))

	enriched := svc.Enrich(context.Background(), []places.Place{
		makePlace("p1", "Joe's BBQ", 4.5),
		makePlace("p2", "JOE'S BBQ - Downtown", 4.2),
		makePlace("p3", "Casa de Maiz", 4.7),
	}, "joe's bbq")

	require.Len(t, enriched, 1)
	assert.Equal(t, "Casa de Maiz", enriched[0].Name)
}

func TestEnrichEmptyOriginExcludesNothing(t *testing.T) {
	svc := NewEnricherService(&fakeSearcher{}, NewMinerService(&fakeGenerator{}))

	enriched := svc.Enrich(context.Background(), []places.Place{
		makePlace("p1", "Joe's BBQ", 4.5),
	}, "")
	assert.Len(t, enriched, 1)
}

func TestEnrichEmptyInput(t *testing.T) {
	svc := NewEnricherService(&fakeSearcher{}, NewMinerService(&fakeGenerator{}))
	assert.Empty(t, svc.Enrich(context.Background(), nil, ""))
}
