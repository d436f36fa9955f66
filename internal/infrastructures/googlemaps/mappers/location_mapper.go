package mappers

import (
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/infrastructures/googlemaps/dto"
)

// ToDomainLocation flattens the components of the first geocode result.
// A component type seen twice keeps the last value.
func ToDomainLocation(resp dto.GeocodeResponse) models.Location {
	if len(resp.Results) == 0 {
		return models.Location{}
	}
	result := resp.Results[0]

	components := make(map[string]string, len(result.AddressComponents))
	for _, component := range result.AddressComponents {
		for _, t := range component.Types {
			components[t] = component.LongName
		}
	}

	return models.Location{
		City:      firstNonEmpty(components["locality"], components["sublocality"], components["administrative_area_level_2"]),
		State:     components["administrative_area_level_1"],
		Country:   components["country"],
		Formatted: result.FormattedAddress,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
