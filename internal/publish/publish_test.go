package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-station/internal/weather"
)

var fastBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func sampleUpdate() weather.Update {
	return weather.Update{
		ID:          "a3c1a1d4-0000-4000-8000-000000000001",
		Timestamp:   time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		Measurement: weather.Measurement{Temperature: 72, Humidity: 65, Pressure: 30.4},
		Panels:      []weather.Panel{{Name: "forecast", Text: "Forecast\nMore of the same\nweather ahead 🌤️"}},
	}
}

func TestWebhookPublisher_PostsUpdate(t *testing.T) {
	var got weather.Update
	var gotID, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Update-ID")
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewWebhookPublisher(srv.Client(), srv.URL, fastBackoff)
	require.NoError(t, p.Publish(context.Background(), sampleUpdate()))

	assert.Equal(t, "webhook", p.Name())
	assert.Equal(t, sampleUpdate(), got)
	assert.Equal(t, sampleUpdate().ID, gotID)
	assert.Equal(t, "application/json", gotType)
}

func TestWebhookPublisher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewWebhookPublisher(srv.Client(), srv.URL, fastBackoff)
	require.NoError(t, p.Publish(context.Background(), sampleUpdate()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookPublisher_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewWebhookPublisher(srv.Client(), srv.URL, fastBackoff)
	err := p.Publish(context.Background(), sampleUpdate())

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(fastBackoff.MaxRetries+1), calls.Load())
}

func TestWebhookPublisher_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewWebhookPublisher(srv.Client(), srv.URL, fastBackoff)
	err := p.Publish(context.Background(), sampleUpdate())

	assert.ErrorIs(t, err, ErrUnexpected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookPublisher_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	noRetry := BackoffConfig{MaxRetries: 0, InitialInterval: time.Millisecond}
	p := NewWebhookPublisher(srv.Client(), srv.URL, noRetry)

	// gobreaker trips after more than five consecutive failures.
	for i := 0; i < 6; i++ {
		assert.ErrorIs(t, p.Publish(context.Background(), sampleUpdate()), ErrServerError)
	}

	err := p.Publish(context.Background(), sampleUpdate())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(6), calls.Load())
}

func TestWebhookPublisher_NoClient(t *testing.T) {
	p := NewWebhookPublisher(nil, "http://localhost", fastBackoff)
	assert.ErrorIs(t, p.Publish(context.Background(), sampleUpdate()), ErrNoHTTPClient)
}

func TestWebhookPublisher_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewWebhookPublisher(srv.Client(), srv.URL, fastBackoff)
	assert.ErrorIs(t, p.Publish(ctx, sampleUpdate()), context.Canceled)
}

func TestMQTTTopics(t *testing.T) {
	assert.Equal(t, "station/update", UpdateTopic("station"))
	assert.Equal(t, "station/panels/statistics", PanelTopic("station", "statistics"))
}

func TestMQTTPublisher_NotConnected(t *testing.T) {
	p := NewMQTTPublisher(MQTTConfig{
		BrokerURL:   "tcp://127.0.0.1:1",
		ClientID:    "test",
		TopicPrefix: "station/",
	}, nil)

	assert.Equal(t, "mqtt", p.Name())
	assert.Equal(t, "station", p.prefix)
	assert.False(t, p.IsConnected())
	assert.ErrorIs(t, p.Publish(context.Background(), sampleUpdate()), ErrNotConnected)
}

// doneToken is an already completed mqtt.Token.
type doneToken struct{ err error }

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type sentMessage struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeMQTTClient records publishes. Methods not overridden panic through the
// nil embedded interface.
type fakeMQTTClient struct {
	mqtt.Client

	mu     sync.Mutex
	failOn string
	sent   []sentMessage
}

func (c *fakeMQTTClient) IsConnected() bool { return true }

func (c *fakeMQTTClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, sentMessage{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	if topic == c.failOn {
		return doneToken{err: errors.New("broker rejected")}
	}
	return doneToken{}
}

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeMQTTClient{}
	p := newMQTTPublisher(client, "station/", nil)
	p.setConnected(true)

	u := sampleUpdate()
	u.Panels = append(u.Panels, weather.Panel{Name: "current", Text: "Current Conditions"})
	require.NoError(t, p.Publish(context.Background(), u))

	require.Len(t, client.sent, 3)

	update := client.sent[0]
	assert.Equal(t, "station/update", update.topic)
	assert.False(t, update.retained)
	assert.Equal(t, byte(1), update.qos)
	var got weather.Update
	require.NoError(t, json.Unmarshal(update.payload, &got))
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Measurement, got.Measurement)

	forecast := client.sent[1]
	assert.Equal(t, "station/panels/forecast", forecast.topic)
	assert.True(t, forecast.retained)
	assert.Equal(t, u.Panels[0].Text, string(forecast.payload))

	current := client.sent[2]
	assert.Equal(t, "station/panels/current", current.topic)
	assert.True(t, current.retained)
	assert.Equal(t, "Current Conditions", string(current.payload))
}

func TestMQTTPublisher_PublishStopsOnFailedTopic(t *testing.T) {
	client := &fakeMQTTClient{failOn: "station/update"}
	p := newMQTTPublisher(client, "station", nil)
	p.setConnected(true)

	err := p.Publish(context.Background(), sampleUpdate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "station/update")
	assert.Len(t, client.sent, 1, "panel topics are not sent after a failed update")
}

func TestMQTTPublisher_LostConnection(t *testing.T) {
	client := &fakeMQTTClient{}
	p := newMQTTPublisher(client, "station", nil)
	p.setConnected(true)
	p.setConnected(false)

	assert.ErrorIs(t, p.Publish(context.Background(), sampleUpdate()), ErrNotConnected)
	assert.Empty(t, client.sent)
}
