// Package weather provides the forecast bundle served to the mobile client.
package weather

// Period is one forecast period as the provider reports it. The mobile
// client reads these fields directly, so they keep the provider's names
// rather than a restructured shape.
type Period struct {
	Number                     int     `json:"number"`
	Name                       string  `json:"name"`
	StartTime                  string  `json:"startTime"`
	EndTime                    string  `json:"endTime"`
	IsDaytime                  bool    `json:"isDaytime"`
	Temperature                int     `json:"temperature"`
	TemperatureUnit            string  `json:"temperatureUnit"`
	WindSpeed                  string  `json:"windSpeed"`
	WindDirection              string  `json:"windDirection"`
	Icon                       string  `json:"icon"`
	ShortForecast              string  `json:"shortForecast"`
	DetailedForecast           string  `json:"detailedForecast"`
	ProbabilityOfPrecipitation Measure `json:"probabilityOfPrecipitation"`
}

// Measure is a unit-tagged value. The provider reports null for zero-chance
// periods, so the value is a pointer.
type Measure struct {
	UnitCode string   `json:"unitCode"`
	Value    *float64 `json:"value"`
}

// ForecastBundle carries the daily and hourly period lists for one site.
type ForecastBundle struct {
	DailyPeriods  []Period `json:"dailyPeriods"`
	HourlyPeriods []Period `json:"hourlyPeriods"`
}
