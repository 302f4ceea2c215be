// Package simulator generates plausible random station readings for demos.
package simulator

import (
	"math/rand/v2"
	"sync"

	"github.com/i474232898/weather-station/internal/weather"
)

// Range is a half-open interval [Min, Min+Span).
type Range struct {
	Min  float64
	Span float64
}

// Default reading ranges: 50-100 °F, 30-90 %, 29.5-31.0 inHg.
var (
	TemperatureRange = Range{Min: 50, Span: 50}
	HumidityRange    = Range{Min: 30, Span: 60}
	PressureRange    = Range{Min: 29.5, Span: 1.5}
)

// Simulator draws readings from a pseudo-random source. Safe for concurrent use.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Simulator seeded from the runtime's random source.
func New() *Simulator {
	return NewWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewWithSource returns a Simulator using src, for reproducible sequences.
func NewWithSource(src rand.Source) *Simulator {
	return &Simulator{rng: rand.New(src)}
}

// Next returns a new random measurement.
func (s *Simulator) Next() weather.Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()

	return weather.Measurement{
		Temperature: s.draw(TemperatureRange),
		Humidity:    s.draw(HumidityRange),
		Pressure:    s.draw(PressureRange),
	}
}

func (s *Simulator) draw(r Range) float64 {
	return r.Min + s.rng.Float64()*r.Span
}
