// Package control relays operator drive commands to the vehicle backend's
// POST /control contract. Commands go through a registry so rate policy
// lives with the command definition, not with whichever surface (HTTP,
// future keyboard bridge) happens to send it.
package control

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"rescue-gcs/internal/observability"
	"rescue-gcs/internal/store"
)

type Command struct {
	Name string
	// MinRetryInterval debounces a held-down operator key.
	MinRetryInterval time.Duration
	// DailyLimit caps relays per day when the redis mirror is live;
	// zero means unlimited.
	DailyLimit int
}

// Result mirrors the backend's response shape.
type Result struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}

type cmdState struct {
	lastAttempt time.Time
}

// Relay sends registered commands to the backend.
type Relay struct {
	url    string
	client *http.Client
	log    *slog.Logger

	mu       sync.Mutex
	registry map[string]Command
	state    map[string]*cmdState
}

func NewRelay(controlURL string, log *slog.Logger) *Relay {
	r := &Relay{
		url:      controlURL,
		client:   &http.Client{Timeout: 2 * time.Second},
		log:      log.With("component", "control"),
		registry: make(map[string]Command),
		state:    make(map[string]*cmdState),
	}
	for _, c := range defaultCommands() {
		r.Register(c)
	}
	return r
}

// defaultCommands is the drive set the vehicle understands.
func defaultCommands() []Command {
	drive := []string{"F", "B", "L", "R", "S"}
	out := make([]Command, 0, len(drive)+2)
	for _, name := range drive {
		out = append(out, Command{Name: name, MinRetryInterval: 100 * time.Millisecond})
	}
	// Speed changes are rarer and worth throttling harder.
	out = append(out,
		Command{Name: "SLOW", MinRetryInterval: 500 * time.Millisecond, DailyLimit: 5000},
		Command{Name: "FAST", MinRetryInterval: 500 * time.Millisecond, DailyLimit: 5000},
	)
	return out
}

func (r *Relay) Register(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry[c.Name] = c
}

func (r *Relay) getState(name string) *cmdState {
	st, ok := r.state[name]
	if !ok {
		st = &cmdState{}
		r.state[name] = st
	}
	return st
}

// Send relays one command. Unknown or throttled commands are rejected
// locally without touching the backend.
func (r *Relay) Send(ctx context.Context, name string) Result {
	r.mu.Lock()
	cmd, known := r.registry[name]
	if !known {
		r.mu.Unlock()
		observability.CommandErrors.Inc()
		return Result{OK: false, Error: "unknown_command"}
	}
	st := r.getState(name)
	now := time.Now()
	if !st.lastAttempt.IsZero() && now.Sub(st.lastAttempt) < cmd.MinRetryInterval {
		r.mu.Unlock()
		return Result{OK: false, Error: "throttled"}
	}
	st.lastAttempt = now
	r.mu.Unlock()

	if cmd.DailyLimit > 0 {
		allowed, count, err := store.IncDailyCmdCounter(cmd.Name, cmd.DailyLimit)
		if err != nil {
			r.log.Warn("daily counter unavailable", "cmd", name, "err", err)
		} else if !allowed {
			r.log.Warn("daily limit reached", "cmd", name, "count", count)
			return Result{OK: false, Error: "daily_limit"}
		}
	}

	res := r.post(ctx, name)
	if res.OK {
		observability.CommandsSent.WithLabelValues(name).Inc()
		r.log.Info("command relayed", "cmd", name)
	} else {
		observability.CommandErrors.Inc()
		r.log.Warn("command failed", "cmd", name, "error", res.Error, "status", res.Status)
	}
	return res
}

func (r *Relay) post(ctx context.Context, name string) Result {
	body, _ := json.Marshal(map[string]string{"cmd": name})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		res = Result{}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		res.OK = false
		if res.Status == 0 {
			res.Status = resp.StatusCode
		}
		return res
	}
	return res
}
