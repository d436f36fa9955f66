package mappers

import (
	"fmt"
	"strings"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/infrastructures/googlemaps/dto"
)

const UnnamedPlace = "Unnamed location"

func ToDomainPlaces(results []dto.PlaceResult, category models.PlaceCategory) []models.Place {
	places := make([]models.Place, 0, len(results))
	for _, r := range results {
		places = append(places, ToDomainPlace(r, category))
	}
	return places
}

func ToDomainPlace(r dto.PlaceResult, category models.PlaceCategory) models.Place {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = UnnamedPlace
	}

	id := strings.TrimSpace(r.PlaceID)
	if id == "" {
		id = fmt.Sprintf("%s-%s", r.Name, category)
	}

	place := models.Place{
		ID:               id,
		Name:             name,
		Vicinity:         r.Vicinity,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Icon:             r.Icon,
	}
	if len(r.Types) > 0 {
		place.Types = append([]string(nil), r.Types...)
	}
	if r.Geometry != nil && r.Geometry.Location != nil {
		place.Location = models.Coordinates{
			Lat: r.Geometry.Location.Lat,
			Lng: r.Geometry.Location.Lng,
		}
	}

	return place
}
