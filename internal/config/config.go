package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	MetricsPort string
	LogLevel    string

	// Vehicle backend endpoints (JSON over HTTP).
	SensorURL  string
	HistoryURL string
	NetworkURL string
	ControlURL string

	SensorPoll  time.Duration
	NetworkPoll time.Duration

	// Commercial map SDK key; empty means the tile backend is used.
	MapSDKKey  string
	MapSDKBase string

	TrailMax   int
	ZoneRadius float64
	SpeedMps   float64

	RedisAddr string
	FeedAddr  string
}

func Load() Config {
	// .env is optional; real env vars always win.
	_ = godotenv.Load()

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SensorURL:   getEnv("SENSOR_URL", "http://192.168.1.50/sensor_data"),
		HistoryURL:  getEnv("HISTORY_URL", "http://192.168.1.50/sensor_history"),
		NetworkURL:  getEnv("NETWORK_URL", "http://192.168.1.61/network"),
		ControlURL:  getEnv("CONTROL_URL", "http://10.238.124.20/control"),
		SensorPoll:  getDuration("SENSOR_POLL", time.Second),
		NetworkPoll: getDuration("NETWORK_POLL", 2*time.Second),
		MapSDKKey:   getEnv("MAP_SDK_KEY", ""),
		MapSDKBase:  getEnv("MAP_SDK_BASE", "https://maps.example.com/v1"),
		TrailMax:    getInt("TRAIL_MAX", 250),
		ZoneRadius:  getFloat("ZONE_RADIUS_M", 25),
		SpeedMps:    getFloat("SPEED_MPS", 1.2),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		FeedAddr:    getEnv("FEED_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
