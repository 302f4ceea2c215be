// Package display contains the station's derived views. Each view keeps its
// own state, changes it only in Update, and renders a text panel on demand.
package display

import (
	"github.com/i474232898/weather-station/internal/weather"
)

// Standard sea-level pressure band, inHg.
const (
	FallingPressureThreshold = 29.92
	RisingPressureThreshold  = 30.20
)

// ClassifyPressure maps a single pressure reading to a barometer trend.
// Both thresholds belong to the steady band.
func ClassifyPressure(pressure float64) weather.PressureTrend {
	switch {
	case pressure < FallingPressureThreshold:
		return weather.PressureFalling
	case pressure > RisingPressureThreshold:
		return weather.PressureRising
	default:
		return weather.PressureSteady
	}
}

// CompareForecast classifies the change from previous to current pressure.
// Equality is exact: values derived through arithmetic may miss the steady case.
func CompareForecast(previous, current float64) weather.ForecastTrend {
	switch {
	case current > previous:
		return weather.ForecastImproving
	case current == previous:
		return weather.ForecastSteady
	default:
		return weather.ForecastWorsening
	}
}
