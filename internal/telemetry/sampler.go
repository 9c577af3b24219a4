package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"rescue-gcs/internal/observability"
)

// Sampler polls the vehicle backend. Poll methods never return an error:
// a failed or stale sensor poll falls back to the single most recent history
// entry, and if that fails too the empty well-typed reading comes back. The
// ok result only signals whether the backend answered, for backoff purposes.
type Sampler struct {
	client     *http.Client
	sensorURL  string
	historyURL string
	networkURL string
	log        *slog.Logger
}

func NewSampler(sensorURL, historyURL, networkURL string, log *slog.Logger) *Sampler {
	return &Sampler{
		client:     &http.Client{Timeout: 2 * time.Second},
		sensorURL:  sensorURL,
		historyURL: historyURL,
		networkURL: networkURL,
		log:        log.With("component", "sampler"),
	}
}

func (s *Sampler) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

type statusError struct{ code int }

func (e *statusError) Error() string { return http.StatusText(e.code) }

// PollSensor fetches /sensor_data and normalizes the response. A payload
// flagged stale or carrying an error triggers exactly one history fallback.
func (s *Sampler) PollSensor(ctx context.Context) (SensorReading, bool) {
	start := time.Now()
	defer observability.ObservePollLatency("sensor", start)

	body, err := s.fetch(ctx, s.sensorURL)
	if err != nil {
		s.log.Warn("sensor poll failed", "err", err)
		observability.PollErrors.WithLabelValues("sensor").Inc()
		return s.pollHistory(ctx)
	}
	observability.Polls.WithLabelValues("sensor").Inc()

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		s.log.Warn("sensor payload malformed", "err", err)
		return s.pollHistory(ctx)
	}
	if stale, _ := raw["stale"].(bool); stale {
		return s.pollHistory(ctx)
	}
	if _, hasErr := raw["error"]; hasErr {
		return s.pollHistory(ctx)
	}
	return sensorFromMap(raw), true
}

// pollHistory asks for the single most recent history record. Both the
// primary and the fallback failing is not an error condition; the empty
// reading renders as placeholders.
func (s *Sampler) pollHistory(ctx context.Context) (SensorReading, bool) {
	observability.HistoryFallbacks.Inc()

	body, err := s.fetch(ctx, s.historyURL+"?n=1")
	if err != nil {
		s.log.Warn("history fallback failed", "err", err)
		return SensorReading{}, false
	}
	var arr []map[string]any
	if err := json.Unmarshal(body, &arr); err != nil || len(arr) == 0 {
		return SensorReading{}, false
	}
	return sensorFromMap(arr[len(arr)-1]), true
}

// PollNetwork fetches /network. On failure the empty reading comes back and
// the link panel degrades to its disabled state.
func (s *Sampler) PollNetwork(ctx context.Context) (NetworkReading, bool) {
	start := time.Now()
	defer observability.ObservePollLatency("network", start)

	body, err := s.fetch(ctx, s.networkURL)
	if err != nil {
		s.log.Warn("network poll failed", "err", err)
		observability.PollErrors.WithLabelValues("network").Inc()
		return NetworkReading{}, false
	}
	observability.Polls.WithLabelValues("network").Inc()
	return ParseNetwork(body), true
}
