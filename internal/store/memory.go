package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-station/internal/weather"
)

var (
	// ErrNotFound is returned when no panel exists under the requested name.
	ErrNotFound = errors.New("panel not found")

	// ErrNotRendered is returned when a panel exists but has not been written yet.
	ErrNotRendered = errors.New("panel has not been rendered yet")
)

type panelState struct {
	text     string
	rendered bool
}

// PanelStore is a concurrency-safe in-memory display surface. Panels are
// declared up front; writes to undeclared panels fail.
type PanelStore struct {
	mu sync.RWMutex

	// declaration order, used by All
	names []string
	data  map[string]*panelState
}

// NewPanelStore creates a PanelStore with the given panels declared.
func NewPanelStore(names ...string) *PanelStore {
	s := &PanelStore{
		data: make(map[string]*panelState, len(names)),
	}
	for _, name := range names {
		if _, ok := s.data[name]; ok {
			continue
		}
		s.names = append(s.names, name)
		s.data[name] = &panelState{}
	}
	return s
}

// SetText replaces the text shown on a panel.
func (s *PanelStore) SetText(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data[name]
	if !ok {
		return ErrNotFound
	}
	p.text = text
	p.rendered = true
	return nil
}

// Get returns the panel with the given name.
func (s *PanelStore) Get(name string) (weather.Panel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[name]
	if !ok {
		return weather.Panel{}, ErrNotFound
	}
	if !p.rendered {
		return weather.Panel{}, ErrNotRendered
	}
	return weather.Panel{Name: name, Text: p.text}, nil
}

// All returns every rendered panel in declaration order.
func (s *PanelStore) All() []weather.Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]weather.Panel, 0, len(s.names))
	for _, name := range s.names {
		p := s.data[name]
		if !p.rendered {
			continue
		}
		result = append(result, weather.Panel{Name: name, Text: p.text})
	}
	return result
}
