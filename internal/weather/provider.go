package weather

import (
	"context"
)

// Display derives a text summary from the measurement stream.
type Display interface {
	Update(m Measurement)
	Render() string
}

// Publisher pushes rendered updates to an outside display (webhook, MQTT, ...).
type Publisher interface {
	Name() string
	Publish(ctx context.Context, u Update) error
}

// MeasurementStore holds the latest measurement.
type MeasurementStore interface {
	SetMeasurements(temperature, humidity, pressure float64)
	Latest() Measurement
}

// PanelStore is the surface the rendered panel texts are written to.
// SetText fails when no panel with that name exists.
type PanelStore interface {
	SetText(name, text string) error
	Get(name string) (Panel, error)
	All() []Panel
}
