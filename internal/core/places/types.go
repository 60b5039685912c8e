package places

// Location 地理座標
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place 地點搜尋回傳的單一地點
type Place struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Address    string   `json:"formatted_address"`
	Rating     float64  `json:"rating,omitempty"`
	PriceLevel int      `json:"price_level,omitempty"`
	Location   Location `json:"location"`
	Types      []string `json:"types,omitempty"`
	PhotoRefs  []string `json:"photo_refs,omitempty"`
}

// Review 地點評論
type Review struct {
	Text   string  `json:"text"`
	Rating float64 `json:"rating"`
}

// Details 地點詳細資料
type Details struct {
	PlaceID string   `json:"place_id"`
	Phone   string   `json:"phone,omitempty"`
	Website string   `json:"website,omitempty"`
	Reviews []Review `json:"reviews,omitempty"`
	Types   []string `json:"types,omitempty"`
}

// textSearchResponse Places Text Search API 回應
type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
		PriceLevel       int     `json:"price_level"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Types  []string `json:"types"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// detailsResponse Places Details API 回應
type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		FormattedPhoneNumber string `json:"formatted_phone_number"`
		Website              string `json:"website"`
		Reviews              []struct {
			Text   string  `json:"text"`
			Rating float64 `json:"rating"`
		} `json:"reviews"`
		Types []string `json:"types"`
	} `json:"result"`
	ErrorMessage string `json:"error_message"`
}
