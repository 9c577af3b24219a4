package telemetry

import (
	"context"
	"sync"
	"time"

	"rescue-gcs/internal/observability"
)

// applyGate enforces last-write-wins per source: a completed poll is applied
// only if no later-issued poll for the same source has already landed.
// Overlapping round trips are possible when the interval is shorter than the
// backend's response time; the newest issue always wins and late arrivals
// are dropped, never queued.
type applyGate struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

func (g *applyGate) next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

func (g *applyGate) tryApply(seq uint64, apply func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.applied {
		return false
	}
	g.applied = seq
	apply()
	return true
}

// Poller drives the sensor and network cadences. Callbacks run on poll
// completion, gated by last-write-wins.
type Poller struct {
	Sampler     *Sampler
	SensorPoll  time.Duration
	NetworkPoll time.Duration
	OnSensor    func(SensorReading)
	OnNetwork   func(NetworkReading)

	sensorGate  applyGate
	networkGate applyGate
}

// Start launches both polling loops. They stop when ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	go p.loop(ctx, p.SensorPoll, p.pollSensorOnce)
	go p.loop(ctx, p.NetworkPoll, p.pollNetworkOnce)
}

// loop runs once immediately, then on the configured cadence. Consecutive
// failures stretch the delay by 1.6x up to 5s; a success resets it.
func (p *Poller) loop(ctx context.Context, interval time.Duration, once func(context.Context) bool) {
	const maxBackoff = 5 * time.Second

	delay := interval
	for {
		if ok := once(ctx); ok {
			delay = interval
		} else {
			delay = time.Duration(float64(delay) * 1.6)
			if delay > maxBackoff {
				delay = maxBackoff
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (p *Poller) pollSensorOnce(ctx context.Context) bool {
	seq := p.sensorGate.next()
	reading, ok := p.Sampler.PollSensor(ctx)
	if !p.sensorGate.tryApply(seq, func() { p.OnSensor(reading) }) {
		observability.StaleDrops.WithLabelValues("sensor").Inc()
	}
	return ok
}

func (p *Poller) pollNetworkOnce(ctx context.Context) bool {
	seq := p.networkGate.next()
	reading, ok := p.Sampler.PollNetwork(ctx)
	if !p.networkGate.tryApply(seq, func() { p.OnNetwork(reading) }) {
		observability.StaleDrops.WithLabelValues("network").Inc()
	}
	return ok
}
