// internal/models/weather.go
package models

// WeatherConditions is the weather sub-argument accepted by community-alert and
// insurance-verification. Pressure and WindDirection are optional.
type WeatherConditions struct {
	Temperature   float64  `json:"temperature"`
	Humidity      float64  `json:"humidity"`
	WindSpeed     float64  `json:"windSpeed"`
	Precipitation float64  `json:"precipitation"`
	Pressure      *float64 `json:"pressure,omitempty"`
	WindDirection *float64 `json:"windDirection,omitempty"`
}

// TreatmentWeather summarizes conditions over a treatment period.
type TreatmentWeather struct {
	AvgTemperature    float64 `json:"avgTemperature"`
	AvgHumidity       float64 `json:"avgHumidity"`
	PrecipitationDays float64 `json:"precipitationDays"`
	SunlightHours     float64 `json:"sunlightHours"`
}

func DefaultCommunityWeather() WeatherConditions {
	return WeatherConditions{Temperature: 25, Humidity: 70, WindSpeed: 10, Precipitation: 0}
}

func DefaultInsuranceWeather() WeatherConditions {
	pressure := 1013.0
	return WeatherConditions{Temperature: 25, Humidity: 70, WindSpeed: 10, Precipitation: 0, Pressure: &pressure}
}

func DefaultTreatmentWeather() TreatmentWeather {
	return TreatmentWeather{AvgTemperature: 22, AvgHumidity: 65, PrecipitationDays: 3, SunlightHours: 8}
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}
