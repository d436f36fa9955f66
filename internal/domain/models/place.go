package models

import "strings"

type PlaceCategory string

const (
	CategoryLodging           PlaceCategory = "lodging"
	CategoryRestaurant        PlaceCategory = "restaurant"
	CategoryTouristAttraction PlaceCategory = "tourist_attraction"
	CategoryATM               PlaceCategory = "atm"
	CategoryTransitStation    PlaceCategory = "transit_station"
)

// AllCategories lists every supported category in display order.
var AllCategories = []PlaceCategory{
	CategoryLodging,
	CategoryRestaurant,
	CategoryTouristAttraction,
	CategoryATM,
	CategoryTransitStation,
}

func ParsePlaceCategory(raw string) (PlaceCategory, bool) {
	value := PlaceCategory(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range AllCategories {
		if c == value {
			return c, true
		}
	}
	return "", false
}

type Place struct {
	ID               string
	Name             string
	Location         Coordinates
	Vicinity         string
	Rating           *float64
	UserRatingsTotal *int
	Icon             string
	Types            []string
	DistanceKm       *float64
}

type NearbyPlaces struct {
	Results map[PlaceCategory][]Place
	Errors  map[PlaceCategory]error
}
