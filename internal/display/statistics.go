package display

import (
	"fmt"
	"math"

	"github.com/i474232898/weather-station/internal/weather"
)

// Initial extremes for a StatisticsView that has seen nothing yet. Any real
// reading replaces both on the first update.
const (
	DefaultStatisticsMin = math.MaxFloat64
	DefaultStatisticsMax = -math.MaxFloat64
)

// NoDataText is rendered by StatisticsView before the first update.
const NoDataText = "Weather Stats\n📊\nNo data yet"

// Statistics is a snapshot of the running temperature aggregate.
type Statistics struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Average returns Sum/Count. ok is false when nothing has been recorded.
func (s Statistics) Average() (avg float64, ok bool) {
	if s.Count == 0 {
		return 0, false
	}
	return s.Sum / float64(s.Count), true
}

// StatisticsView keeps an all-time running aggregate of temperature.
type StatisticsView struct {
	stats Statistics
}

// NewStatisticsView starts the aggregate at the given extremes.
// Use DefaultStatisticsMin and DefaultStatisticsMax for an empty history.
func NewStatisticsView(initialMin, initialMax float64) *StatisticsView {
	return &StatisticsView{
		stats: Statistics{Min: initialMin, Max: initialMax},
	}
}

// Update folds the temperature into the aggregate. Humidity and pressure are ignored.
func (v *StatisticsView) Update(m weather.Measurement) {
	v.stats.Sum += m.Temperature
	v.stats.Count++

	if m.Temperature > v.stats.Max {
		v.stats.Max = m.Temperature
	}
	if m.Temperature < v.stats.Min {
		v.stats.Min = m.Temperature
	}
}

// Stats returns a copy of the current aggregate.
func (v *StatisticsView) Stats() Statistics {
	return v.stats
}

// Render returns the temperature aggregate, or NoDataText before the first update.
func (v *StatisticsView) Render() string {
	avg, ok := v.stats.Average()
	if !ok {
		return NoDataText
	}
	return fmt.Sprintf("Weather Stats\n📊\nAvg temp: %.1f°F\nMin temp: %.1f°F\nMax temp: %.1f°F",
		avg, v.stats.Min, v.stats.Max)
}
