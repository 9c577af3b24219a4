// Package linkquality derives per-channel communication metrics from the
// single 0-100 signal quality scalar reported by the vehicle. Every mapping
// is linear in the clamped quality, so better signal always means more
// throughput and frames and less latency, loss and jitter.
package linkquality

import "math"

// EnableThreshold gates the whole link: below it every channel reports
// disabled and the dashboard shows the two-state "link down" indicator.
const EnableThreshold = 10.0

type Bundle struct {
	Quality float64 `json:"quality"`
	Enabled bool    `json:"enabled"`

	DownlinkMbps float64 `json:"downlinkMbps"`
	UplinkMbps   float64 `json:"uplinkMbps"`
	LatencyMs    float64 `json:"latencyMs"`
	LossPct      float64 `json:"lossPct"`

	Voice Voice `json:"voice"`
	Video Video `json:"video"`
	Chat  Chat  `json:"chat"`
}

type Voice struct {
	Enabled     bool    `json:"enabled"`
	BitrateKbps float64 `json:"bitrateKbps"`
	JitterMs    float64 `json:"jitterMs"`
}

type Video struct {
	Enabled     bool    `json:"enabled"`
	BitrateMbps float64 `json:"bitrateMbps"`
	FPS         float64 `json:"fps"`
	Resolution  string  `json:"resolution"`
}

type Chat struct {
	Enabled      bool    `json:"enabled"`
	DeliveryPct  float64 `json:"deliveryPct"`
	AckLatencyMs float64 `json:"ackLatencyMs"`
	Status       string  `json:"status"`
}

func clamp(q, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, q))
}

// Synthesize recomputes the full bundle from one quality sample. Stateless:
// no field depends on a previous call.
func Synthesize(quality float64) Bundle {
	q := clamp(quality, 0, 100)
	enabled := q >= EnableThreshold

	b := Bundle{
		Quality:      q,
		Enabled:      enabled,
		DownlinkMbps: round1(0.24 * q),
		UplinkMbps:   round1(0.08 * q),
		LatencyMs:    round1(250 - 2.1*q),
		LossPct:      round1(12 * (1 - q/100)),
		Voice: Voice{
			Enabled:     enabled,
			BitrateKbps: round1(6 + 0.58*q),
			JitterMs:    round1(30 - 0.26*q),
		},
		Video: Video{
			Enabled:     enabled,
			BitrateMbps: round1(0.06 * q),
			FPS:         round1(5 + 0.25*q),
			Resolution:  resolutionTier(q),
		},
		Chat: Chat{
			Enabled:      enabled,
			DeliveryPct:  round1(70 + 0.3*q),
			AckLatencyMs: round1(400 - 3.2*q),
			Status:       chatStatus(q),
		},
	}
	return b
}

func resolutionTier(q float64) string {
	switch {
	case q > 70:
		return "1080p"
	case q > 40:
		return "720p"
	default:
		return "480p"
	}
}

func chatStatus(q float64) string {
	switch {
	case q >= 70:
		return "realtime"
	case q >= 30:
		return "delayed"
	case q >= EnableThreshold:
		return "degraded"
	default:
		return "offline"
	}
}

// QualityFromRSSI approximates a 0-100 quality from raw RSSI when the vehicle
// reports signal strength only: -90 dBm and below is 0, -40 dBm saturates.
func QualityFromRSSI(rssiDbm float64) float64 {
	return clamp(2*(rssiDbm+90), 0, 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
