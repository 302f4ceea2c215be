package weather

import (
	"time"
)

// Measurement is one reading from the station. Units are conventions only:
// degrees Fahrenheit, percent relative humidity, inches of mercury.
type Measurement struct {
	Temperature float64 `json:"temperatureF"`
	Humidity    float64 `json:"humidityPercent"`
	Pressure    float64 `json:"pressureInHg"`
}

// PressureTrend is the barometer glyph shown on the current conditions panel.
type PressureTrend string

const (
	PressureFalling PressureTrend = "falling"
	PressureSteady  PressureTrend = "steady"
	PressureRising  PressureTrend = "rising"
)

// ForecastTrend compares the two most recent pressure readings.
type ForecastTrend string

const (
	ForecastImproving ForecastTrend = "improving"
	ForecastSteady    ForecastTrend = "steady"
	ForecastWorsening ForecastTrend = "worsening"
)

// Panel names used by the station's display surface.
const (
	PanelCurrentConditions = "current"
	PanelStatistics        = "statistics"
	PanelForecast          = "forecast"
)

// Panel is the rendered text of a single display.
type Panel struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Update is what publishers receive after every recorded measurement.
type Update struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"` // always UTC
	Measurement Measurement `json:"measurement"`
	Panels      []Panel     `json:"panels"`
}
