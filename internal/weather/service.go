package weather

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// publishQueueSize bounds how many rendered updates may wait for the
	// publishers. When full, new updates are dropped rather than blocking
	// RecordMeasurement.
	publishQueueSize = 64
	publishTimeout   = 30 * time.Second
)

type registeredDisplay struct {
	name    string
	display Display
}

// Service is the station orchestrator. Every measurement goes through
// RecordMeasurement, which is the only place displays are mutated.
type Service struct {
	mu       sync.Mutex
	store    MeasurementStore
	panels   PanelStore
	displays []registeredDisplay
	closed   bool

	publishers []Publisher
	queue      chan Update
	done       chan struct{}
	logger     *slog.Logger
}

// NewService creates a new Service. When publishers are given, a single
// worker delivers updates to them in the order they were recorded; call
// Close to drain it.
func NewService(store MeasurementStore, panels PanelStore, logger *slog.Logger, publishers ...Publisher) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:      store,
		panels:     panels,
		publishers: publishers,
		done:       make(chan struct{}),
		logger:     logger,
	}

	if len(publishers) == 0 {
		close(s.done)
		return s
	}

	s.queue = make(chan Update, publishQueueSize)
	go s.publishLoop()
	return s
}

// Register adds a display whose rendered text is written to the panel with
// the given name. Displays are updated in registration order.
func (s *Service) Register(name string, d Display) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.displays = append(s.displays, registeredDisplay{name: name, display: d})
}

// RecordMeasurement stores m, updates every display, and writes the freshly
// rendered texts to the panel surface. It returns the rendered panels without
// waiting for the publishers.
func (s *Service) RecordMeasurement(ctx context.Context, m Measurement) []Panel {
	s.mu.Lock()
	defer s.mu.Unlock()

	panels := s.apply(m)
	s.logger.DebugContext(ctx, "measurement recorded",
		"temperature", m.Temperature,
		"humidity", m.Humidity,
		"pressure", m.Pressure,
	)

	// Enqueued under mu so publishers see updates in apply order.
	s.enqueue(Update{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Measurement: m,
		Panels:      panels,
	})

	return panels
}

// apply must be called with mu held.
func (s *Service) apply(m Measurement) []Panel {
	s.store.SetMeasurements(m.Temperature, m.Humidity, m.Pressure)

	for _, rd := range s.displays {
		rd.display.Update(m)
	}

	panels := make([]Panel, 0, len(s.displays))
	for _, rd := range s.displays {
		text := rd.display.Render()
		panels = append(panels, Panel{Name: rd.name, Text: text})

		if err := s.panels.SetText(rd.name, text); err != nil {
			// Missing panel: skip it, the rest of the surface still refreshes.
			s.logger.Warn("panel not available; skipping", "panel", rd.name, "error", err)
		}
	}
	return panels
}

// enqueue must be called with mu held.
func (s *Service) enqueue(u Update) {
	if s.queue == nil || s.closed {
		return
	}

	select {
	case s.queue <- u:
	default:
		s.logger.Warn("publish queue full; dropping update", "update_id", u.ID)
	}
}

func (s *Service) publishLoop() {
	defer close(s.done)

	for u := range s.queue {
		s.publish(u)
	}
}

// publish fans one update out to all publishers and waits for them, so the
// next update never overtakes it. Failures are logged per publisher.
func (s *Service) publish(u Update) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)
	for _, p := range s.publishers {
		p := p
		g.Go(func() error {
			if err := p.Publish(gCtx, u); err != nil {
				s.logger.Error("publish failed", "publisher", p.Name(), "update_id", u.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Close stops accepting updates for publishing and waits until every queued
// update has been delivered. Recording keeps working afterwards. Safe to call
// more than once.
func (s *Service) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if s.queue != nil {
			close(s.queue)
		}
	}
	s.mu.Unlock()

	<-s.done
}

// Latest returns the most recently recorded measurement.
func (s *Service) Latest() Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Latest()
}

// Panels returns every panel currently shown.
func (s *Service) Panels() []Panel {
	return s.panels.All()
}

// Panel returns a single panel by name.
func (s *Service) Panel(name string) (Panel, error) {
	return s.panels.Get(name)
}
