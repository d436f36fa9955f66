package dto

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geometry struct {
	Location *LatLng `json:"location"`
}

type PlaceResult struct {
	PlaceID          string    `json:"place_id"`
	Name             string    `json:"name"`
	Geometry         *Geometry `json:"geometry"`
	Vicinity         string    `json:"vicinity"`
	Rating           *float64  `json:"rating"`
	UserRatingsTotal *int      `json:"user_ratings_total"`
	Icon             string    `json:"icon"`
	Types            []string  `json:"types"`
}

type NearbySearchResponse struct {
	Results      []PlaceResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}
