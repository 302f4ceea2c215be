package display

import (
	"github.com/i474232898/weather-station/internal/weather"
)

// DefaultForecastBaseline seeds the current pressure slot before the first reading.
const DefaultForecastBaseline = 29.92

var forecastTexts = map[weather.ForecastTrend]string{
	weather.ForecastImproving: "Improving weather\non the way! ☀️",
	weather.ForecastSteady:    "More of the same\nweather ahead 🌤️",
	weather.ForecastWorsening: "Watch out for\ncooler, rainy\nweather 🌧️",
}

// ForecastView keeps the last two pressure readings.
type ForecastView struct {
	previous float64
	current  float64
}

// NewForecastView seeds the current slot with baseline; the previous slot
// starts at zero. After the first update previous equals baseline.
func NewForecastView(baseline float64) *ForecastView {
	return &ForecastView{current: baseline}
}

// Update shifts current into previous, then stores the new pressure.
// Temperature and humidity are ignored.
func (v *ForecastView) Update(m weather.Measurement) {
	v.previous = v.current
	v.current = m.Pressure
}

// Pressures returns the previous and current pressure slots.
func (v *ForecastView) Pressures() (previous, current float64) {
	return v.previous, v.current
}

// Trend compares the two pressure slots.
func (v *ForecastView) Trend() weather.ForecastTrend {
	return CompareForecast(v.previous, v.current)
}

// Render names the forecast for the latest pressure change.
func (v *ForecastView) Render() string {
	return "Forecast\n" + forecastTexts[v.Trend()]
}
