package mappers

import (
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/infrastructures/openweather/dto"
)

func ToDomainWeather(resp dto.CurrentWeatherResponse) models.Weather {
	var weather models.Weather
	if resp.Main != nil && resp.Main.Temp != nil {
		temp := *resp.Main.Temp
		weather.TemperatureC = &temp
	}
	if len(resp.Weather) > 0 {
		weather.Description = resp.Weather[0].Description
		weather.Icon = resp.Weather[0].Icon
	}
	return weather
}
