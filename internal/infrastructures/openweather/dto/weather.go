package dto

type Main struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Humidity  *int     `json:"humidity"`
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CurrentWeatherResponse struct {
	Main    *Main       `json:"main"`
	Weather []Condition `json:"weather"`
	Name    string      `json:"name"`
}

type ErrorResponse struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}
