package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-station/internal/weather"
)

type countingRecorder struct {
	mu       sync.Mutex
	recorded []weather.Measurement
}

func (r *countingRecorder) RecordMeasurement(_ context.Context, m weather.Measurement) []weather.Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, m)
	return []weather.Panel{{Name: "current", Text: "ok"}}
}

func (r *countingRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.recorded)
}

type fixedSource struct{ m weather.Measurement }

func (s fixedSource) Next() weather.Measurement { return s.m }

func TestNew_DefaultsInterval(t *testing.T) {
	a := New(&countingRecorder{}, fixedSource{}, 0, nil)
	assert.Equal(t, DefaultInterval, a.Interval())
	assert.False(t, a.Enabled())
}

func TestTick_RecordsOneReading(t *testing.T) {
	rec := &countingRecorder{}
	want := weather.Measurement{Temperature: 88, Humidity: 50, Pressure: 30.1}
	a := New(rec, fixedSource{m: want}, time.Second, nil)

	m, panels := a.Tick(context.Background())

	assert.Equal(t, want, m)
	assert.Equal(t, []weather.Panel{{Name: "current", Text: "ok"}}, panels)
	assert.Equal(t, 1, rec.count())
}

func TestStartStop_Idempotent(t *testing.T) {
	a := New(&countingRecorder{}, fixedSource{}, time.Hour, nil)

	require.NoError(t, a.Start())
	require.NoError(t, a.Start())
	assert.True(t, a.Enabled())

	a.Stop()
	a.Stop()
	assert.False(t, a.Enabled())
}

func TestStart_TicksUntilStopped(t *testing.T) {
	rec := &countingRecorder{}
	a := New(rec, fixedSource{m: weather.Measurement{Temperature: 70}}, 20*time.Millisecond, nil)

	require.NoError(t, a.Start())
	t.Cleanup(a.Stop)

	assert.Eventually(t, func() bool { return rec.count() >= 2 }, 2*time.Second, 10*time.Millisecond)

	a.Stop()
	stopped := rec.count()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, rec.count(), stopped+1)
}

func TestStart_CanRestartAfterStop(t *testing.T) {
	rec := &countingRecorder{}
	a := New(rec, fixedSource{}, 20*time.Millisecond, nil)

	require.NoError(t, a.Start())
	a.Stop()
	require.NoError(t, a.Start())
	t.Cleanup(a.Stop)

	assert.True(t, a.Enabled())
	assert.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
