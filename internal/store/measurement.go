package store

import (
	"github.com/i474232898/weather-station/internal/weather"
)

// MeasurementStore holds exactly one measurement: the most recently set one.
// It is not safe for concurrent use; the station service serializes access.
type MeasurementStore struct {
	temperature float64
	humidity    float64
	pressure    float64
}

// NewMeasurementStore returns a store holding zero values.
func NewMeasurementStore() *MeasurementStore {
	return &MeasurementStore{}
}

// SetMeasurements overwrites all three values. Nothing is validated.
func (s *MeasurementStore) SetMeasurements(temperature, humidity, pressure float64) {
	s.temperature = temperature
	s.humidity = humidity
	s.pressure = pressure
}

func (s *MeasurementStore) Temperature() float64 { return s.temperature }
func (s *MeasurementStore) Humidity() float64    { return s.humidity }
func (s *MeasurementStore) Pressure() float64    { return s.pressure }

// Latest returns the stored values as a Measurement.
func (s *MeasurementStore) Latest() weather.Measurement {
	return weather.Measurement{
		Temperature: s.temperature,
		Humidity:    s.humidity,
		Pressure:    s.pressure,
	}
}
