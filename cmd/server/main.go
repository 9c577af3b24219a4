package main

import (
	"context"

	"rescue-gcs/internal/config"
	"rescue-gcs/internal/control"
	"rescue-gcs/internal/feed"
	"rescue-gcs/internal/mapview"
	"rescue-gcs/internal/observability"
	"rescue-gcs/internal/renderer"
	"rescue-gcs/internal/route"
	"rescue-gcs/internal/server"
	"rescue-gcs/internal/store"
	"rescue-gcs/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	logger.Info("Starting rescue-gcs...", "port", cfg.HTTPPort)

	// Redis mirror is optional; the dashboard runs standalone without it.
	if cfg.RedisAddr != "" {
		if err := store.InitRedis(cfg.RedisAddr, 0); err != nil {
			logger.Error("Redis init failed, mirror disabled", "error", err)
		}
	}
	feed.Init(cfg.FeedAddr, logger)

	backend := mapview.Select(cfg.MapSDKKey, cfg.MapSDKBase, logger)
	session := renderer.NewSession(backend, cfg.TrailMax, cfg.ZoneRadius, logger)
	estimator := route.NewEstimator(backend, session.LastPosition, cfg.SpeedMps)
	session.SetSpeedSink(estimator.RecordSpeed)
	session.OnSnapshot = func(snap renderer.TelemetrySnapshot) {
		store.MirrorSnapshot(session.ID, snap)
		feed.Send(snap)
	}

	sampler := telemetry.NewSampler(cfg.SensorURL, cfg.HistoryURL, cfg.NetworkURL, logger)
	poller := &telemetry.Poller{
		Sampler:     sampler,
		SensorPoll:  cfg.SensorPoll,
		NetworkPoll: cfg.NetworkPoll,
		OnSensor:    session.ApplySensor,
		OnNetwork:   session.ApplyNetwork,
	}
	poller.Start(context.Background())

	relay := control.NewRelay(cfg.ControlURL, logger)

	go observability.StartMetricsServer(cfg.MetricsPort)

	srv := server.New(session, estimator, relay, logger)
	if err := srv.Run(cfg.HTTPPort); err != nil {
		logger.Error("HTTP server failed", "error", err)
	}
}
