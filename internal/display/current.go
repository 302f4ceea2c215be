package display

import (
	"fmt"
	"strconv"

	"github.com/i474232898/weather-station/internal/weather"
)

var pressureGlyphs = map[weather.PressureTrend]string{
	weather.PressureFalling: "↓",
	weather.PressureSteady:  "→",
	weather.PressureRising:  "↑",
}

// CurrentConditionsView shows the latest measurement and a pressure glyph.
type CurrentConditionsView struct {
	current weather.Measurement
}

// NewCurrentConditionsView returns a view with no reading cached.
func NewCurrentConditionsView() *CurrentConditionsView {
	return &CurrentConditionsView{}
}

// Update replaces the cached measurement.
func (v *CurrentConditionsView) Update(m weather.Measurement) {
	v.current = m
}

// Trend classifies the cached pressure.
func (v *CurrentConditionsView) Trend() weather.PressureTrend {
	return ClassifyPressure(v.current.Pressure)
}

// Render formats the cached reading with a pressure trend glyph.
func (v *CurrentConditionsView) Render() string {
	return fmt.Sprintf("Current Conditions\n☀️\nTemp: %s°F\nHumidity: %s%%\nPressure: %s",
		formatReading(v.current.Temperature),
		formatReading(v.current.Humidity),
		pressureGlyphs[v.Trend()],
	)
}

// formatReading prints a value with as many digits as it needs.
func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
