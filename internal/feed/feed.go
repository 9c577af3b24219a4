// Package feed pushes applied telemetry snapshots as NDJSON lines to an
// optional downstream aggregator (mission log, wall display). The link
// reconnects forever in the background; while it is down, snapshots are
// dropped, not queued — each one is independently renderable and the next
// poll supersedes it anyway.
package feed

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

var (
	feedAddr string
	logger   *slog.Logger

	mu   sync.Mutex
	conn net.Conn
)

// Init starts the client. An empty addr leaves the feed disabled.
func Init(addr string, lg *slog.Logger) {
	feedAddr = addr
	if feedAddr == "" {
		lg.Info("feed: disabled (no aggregator address configured)")
		return
	}
	logger = lg.With("component", "feed")

	go connectLoop()
}

func connectLoop() {
	for {
		c, err := net.Dial("tcp", feedAddr)
		if err != nil {
			logger.Error("feed: dial failed", "addr", feedAddr, "err", err)
			time.Sleep(5 * time.Second)
			continue
		}

		setConn(c)
		logger.Info("feed: connected", "remote", c.RemoteAddr().String())

		waitClosed(c)

		clearConn(c)
		logger.Warn("feed: connection closed, reconnecting...")
		time.Sleep(2 * time.Second)
	}
}

// waitClosed blocks until the aggregator hangs up. The feed is write-only;
// anything the peer sends is drained and ignored.
func waitClosed(c net.Conn) {
	buf := make([]byte, 256)
	for {
		if _, err := c.Read(buf); err != nil {
			return
		}
	}
}

func setConn(c net.Conn) {
	mu.Lock()
	defer mu.Unlock()
	conn = c
}

func clearConn(c net.Conn) {
	mu.Lock()
	defer mu.Unlock()
	if conn == c {
		_ = conn.Close()
		conn = nil
	}
}

func getConn() net.Conn {
	mu.Lock()
	defer mu.Unlock()
	return conn
}

// Send writes one snapshot as an NDJSON line. A nil connection or write
// error is reported but never fatal.
func Send(v any) {
	if feedAddr == "" {
		return
	}
	if err := sendNDJSON(v); err != nil && logger != nil {
		logger.Warn("feed: send failed", "err", err)
	}
}

func sendNDJSON(v any) error {
	c := getConn()
	if c == nil {
		return errors.New("feed: not connected")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = c.Write(append(b, '\n'))
	return err
}
