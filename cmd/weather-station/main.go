package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-station/internal/api/http"
	"github.com/i474232898/weather-station/internal/config"
	"github.com/i474232898/weather-station/internal/display"
	"github.com/i474232898/weather-station/internal/logging"
	"github.com/i474232898/weather-station/internal/publish"
	"github.com/i474232898/weather-station/internal/scheduler"
	"github.com/i474232898/weather-station/internal/simulator"
	"github.com/i474232898/weather-station/internal/store"
	"github.com/i474232898/weather-station/internal/weather"
)

const appName = "weather-station"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg, appName)
	slog.SetDefault(logger)

	// Optional outside displays.
	var pubs []weather.Publisher

	if cfg.DisplayWebhookURL != "" {
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		pubs = append(pubs, publish.NewWebhookPublisher(httpClient, cfg.DisplayWebhookURL, publish.DefaultBackoff))
	}

	if cfg.MQTTBrokerURL != "" {
		mq := publish.NewMQTTPublisher(publish.MQTTConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, logger)

		connectCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		if err := mq.Connect(connectCtx); err != nil {
			// Auto-reconnect keeps trying in the background.
			logger.Warn("mqtt not connected at startup", "error", err)
		}
		cancel()
		defer mq.Disconnect()

		pubs = append(pubs, mq)
	}

	// Station core: one store, three displays, one panel surface.
	panels := store.NewPanelStore(weather.PanelCurrentConditions, weather.PanelStatistics, weather.PanelForecast)
	service := weather.NewService(store.NewMeasurementStore(), panels, logger, pubs...)
	// Deferred after mq.Disconnect so queued updates drain while still connected.
	defer service.Close()
	service.Register(weather.PanelCurrentConditions, display.NewCurrentConditionsView())
	service.Register(weather.PanelStatistics, display.NewStatisticsView(display.DefaultStatisticsMin, display.DefaultStatisticsMax))
	service.Register(weather.PanelForecast, display.NewForecastView(cfg.ForecastBaseline))

	service.RecordMeasurement(context.Background(), weather.Measurement{
		Temperature: cfg.InitialTemperature,
		Humidity:    cfg.InitialHumidity,
		Pressure:    cfg.InitialPressure,
	})

	auto := scheduler.New(service, simulator.New(), cfg.AutoUpdateInterval, logger)
	if cfg.AutoUpdateEnabled {
		if err := auto.Start(); err != nil {
			logger.Error("failed to start auto-update", "error", err)
			os.Exit(1)
		}
	}
	defer auto.Stop()

	app := httpapi.NewApp(appName, true)
	httpapi.RegisterRoutes(app, service, auto)

	go func() {
		logger.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
}
