package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-station/internal/weather"
)

// DefaultInterval is used when a non-positive interval is configured.
const DefaultInterval = 3 * time.Second

// tickTimeout bounds a single tick, publishers included.
const tickTimeout = 30 * time.Second

// Recorder is the serialized update path ticks go through.
type Recorder interface {
	RecordMeasurement(ctx context.Context, m weather.Measurement) []weather.Panel
}

// Source produces the readings recorded on each tick.
type Source interface {
	Next() weather.Measurement
}

// AutoUpdater periodically records a reading from its source while enabled.
type AutoUpdater struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler

	recorder Recorder
	source   Source
	interval time.Duration
	logger   *slog.Logger
}

// New creates a new, disabled AutoUpdater.
func New(recorder Recorder, source Source, interval time.Duration, logger *slog.Logger) *AutoUpdater {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoUpdater{
		recorder: recorder,
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Tick records one reading from the source and returns it with the rendered panels.
func (a *AutoUpdater) Tick(ctx context.Context) (weather.Measurement, []weather.Panel) {
	m := a.source.Next()
	return m, a.recorder.RecordMeasurement(ctx, m)
}

// Start schedules Tick every interval, the first one an interval from now.
// Calling Start while enabled is a no-op.
func (a *AutoUpdater) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler != nil {
		return nil
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	_, err := s.Every(a.interval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
		defer cancel()

		m, _ := a.Tick(ctx)
		a.logger.Debug("auto-update tick",
			"temperature", m.Temperature,
			"humidity", m.Humidity,
			"pressure", m.Pressure,
		)
	})
	if err != nil {
		return err
	}

	s.StartAsync()
	a.scheduler = s
	a.logger.Info("auto-update started", "interval", a.interval)
	return nil
}

// Stop cancels future ticks. Calling Stop while disabled is a no-op.
func (a *AutoUpdater) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scheduler == nil {
		return
	}
	a.scheduler.Stop()
	a.scheduler = nil
	a.logger.Info("auto-update stopped")
}

// Enabled reports whether ticks are scheduled.
func (a *AutoUpdater) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.scheduler != nil
}

// Interval returns the time between ticks.
func (a *AutoUpdater) Interval() time.Duration {
	return a.interval
}
