package models

import "math"

type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Location struct {
	City      string
	State     string
	Country   string
	Formatted string
}

func (l Location) Empty() bool {
	return l == Location{}
}

type Weather struct {
	TemperatureC *float64
	Description  string
	Icon         string
}
