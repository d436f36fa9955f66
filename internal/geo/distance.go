// Package geo computes great-circle distances and orders matches and places
// by how far they are from a reference point.
package geo

import (
	"math"
	"sort"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

const (
	EarthRadiusKm = 6371.0

	DefaultMatchLimit = 6
)

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b models.Coordinates) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// ClosestMatches returns at most limit matches. Without a location the input
// order is kept and no distance is attached; with one, matches are ordered by
// distance and ties keep their input order. The input slice is not modified.
func ClosestMatches(matches []models.Match, loc *models.Coordinates, limit int) []models.MatchWithDistance {
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	out := make([]models.MatchWithDistance, 0, len(matches))
	for _, m := range matches {
		item := models.MatchWithDistance{Match: m}
		if loc != nil {
			d := Haversine(*loc, m.Location)
			item.DistanceKm = &d
		}
		out = append(out, item)
	}

	if loc != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].DistanceKm < *out[j].DistanceKm
		})
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// SortPlacesByDistance returns a copy of places with DistanceKm filled in,
// ordered nearest first.
func SortPlacesByDistance(places []models.Place, origin models.Coordinates) []models.Place {
	out := make([]models.Place, len(places))
	copy(out, places)

	for i := range out {
		d := Haversine(origin, out[i].Location)
		out[i].DistanceKm = &d
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceKm < *out[j].DistanceKm
	})
	return out
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
