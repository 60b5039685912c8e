package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"dish-finder/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// Client Google Places API 客戶端
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建地點搜尋客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL("https://maps.googleapis.com/maps/api/place").
		SetTimeout(cfg.Places.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// Enabled 是否設定了地點搜尋 API Key
func (c *Client) Enabled() bool {
	return c.config.Places.APIKey != ""
}

// TextSearch 以文字查詢搜尋地點，限制在指定座標與半徑範圍內
func (c *Client) TextSearch(ctx context.Context, query string, lat, lng float64, radiusMeters int) ([]Place, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("places api key is not configured")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"location": fmt.Sprintf("%f,%f", lat, lng),
			"radius":   fmt.Sprintf("%d", radiusMeters),
			"key":      c.config.Places.APIKey,
		}).
		Get("/textsearch/json")

	if err != nil {
		return nil, fmt.Errorf("failed to send text search request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode())
	}

	var result textSearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse text search response: %w", err)
	}

	// ZERO_RESULTS 是合法結果，不視為錯誤
	if result.Status != "OK" && result.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places API error: %s (%s)", result.Status, result.ErrorMessage)
	}

	out := make([]Place, 0, len(result.Results))
	for _, r := range result.Results {
		place := Place{
			PlaceID:    r.PlaceID,
			Name:       r.Name,
			Address:    r.FormattedAddress,
			Rating:     r.Rating,
			PriceLevel: r.PriceLevel,
			Location:   Location{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Types:      r.Types,
		}
		for _, p := range r.Photos {
			place.PhotoRefs = append(place.PhotoRefs, p.PhotoReference)
		}
		out = append(out, place)
	}

	return out, nil
}

// GetDetails 取得地點的電話、網站、評論與類型標籤
func (c *Client) GetDetails(ctx context.Context, placeID string) (*Details, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("places api key is not configured")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   "formatted_phone_number,website,reviews,types",
			"key":      c.config.Places.APIKey,
		}).
		Get("/details/json")

	if err != nil {
		return nil, fmt.Errorf("failed to send details request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("places API returned status %d", resp.StatusCode())
	}

	var result detailsResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse details response: %w", err)
	}
	if result.Status != "OK" {
		return nil, fmt.Errorf("places API error: %s (%s)", result.Status, result.ErrorMessage)
	}

	details := &Details{
		PlaceID: placeID,
		Phone:   result.Result.FormattedPhoneNumber,
		Website: result.Result.Website,
		Types:   result.Result.Types,
	}
	for _, r := range result.Result.Reviews {
		details.Reviews = append(details.Reviews, Review{Text: r.Text, Rating: r.Rating})
	}

	return details, nil
}

// PhotoURL 組出前端可直接使用的照片網址；使用前端地圖金鑰
func (c *Client) PhotoURL(photoRef string, maxWidth int) string {
	key := c.config.Maps.ClientKey
	if key == "" {
		key = c.config.Places.APIKey
	}
	return fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/place/photo?maxwidth=%d&photo_reference=%s&key=%s",
		maxWidth, url.QueryEscape(photoRef), key,
	)
}
