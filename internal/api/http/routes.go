package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-station/internal/store"
	"github.com/i474232898/weather-station/internal/weather"
)

// Values used for fields missing from a manual update.
const (
	DefaultTemperature = 72.0
	DefaultHumidity    = 65.0
	DefaultPressure    = 30.0
)

var validate = validator.New()

// Station is the orchestrator as seen by the HTTP layer.
type Station interface {
	RecordMeasurement(ctx context.Context, m weather.Measurement) []weather.Panel
	Latest() weather.Measurement
	Panels() []weather.Panel
	Panel(name string) (weather.Panel, error)
}

// AutoUpdate controls timer-driven random readings.
type AutoUpdate interface {
	Tick(ctx context.Context) (weather.Measurement, []weather.Panel)
	Start() error
	Stop()
	Enabled() bool
	Interval() time.Duration
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, station Station, auto AutoUpdate) {
	v1 := app.Group("/api/v1")

	v1.Get("/measurements/latest", func(c *fiber.Ctx) error {
		return c.JSON(station.Latest())
	})

	v1.Post("/measurements", func(c *fiber.Ctx) error {
		var req measurementRequest
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		m := req.toMeasurement()
		panels := station.RecordMeasurement(c.UserContext(), m)
		return c.JSON(recordResponse{Measurement: m, Panels: panels})
	})

	v1.Post("/measurements/random", func(c *fiber.Ctx) error {
		m, panels := auto.Tick(c.UserContext())
		return c.JSON(recordResponse{Measurement: m, Panels: panels})
	})

	v1.Get("/panels", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"panels": station.Panels(),
		})
	})

	v1.Get("/panels/:name", func(c *fiber.Ctx) error {
		q := panelQuery{Name: c.Params("name")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		panel, err := station.Panel(q.Name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrNotRendered) {
				return fiber.NewError(fiber.StatusNotFound, "panel has no content yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read panel")
		}
		return c.JSON(panel)
	})

	v1.Get("/auto-update", func(c *fiber.Ctx) error {
		return c.JSON(autoUpdateState(auto))
	})

	v1.Put("/auto-update", func(c *fiber.Ctx) error {
		var req autoUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if *req.Enabled {
			if err := auto.Start(); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to start auto-update")
			}
		} else {
			auto.Stop()
		}
		return c.JSON(autoUpdateState(auto))
	})
}

type recordResponse struct {
	Measurement weather.Measurement `json:"measurement"`
	Panels      []weather.Panel     `json:"panels"`
}

// measurementRequest is the manual update body. Every field is optional.
type measurementRequest struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
}

func (r *measurementRequest) bind(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(r); err != nil {
		return errors.New("invalid measurement body; expected JSON numbers")
	}
	return nil
}

func (r measurementRequest) toMeasurement() weather.Measurement {
	return weather.Measurement{
		Temperature: valueOr(r.Temperature, DefaultTemperature),
		Humidity:    valueOr(r.Humidity, DefaultHumidity),
		Pressure:    valueOr(r.Pressure, DefaultPressure),
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// panelQuery identifies one of the station's panels.
type panelQuery struct {
	Name string `validate:"required,oneof=current statistics forecast"`
}

type autoUpdateRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func autoUpdateState(auto AutoUpdate) fiber.Map {
	return fiber.Map{
		"enabled":  auto.Enabled(),
		"interval": auto.Interval().String(),
	}
}
