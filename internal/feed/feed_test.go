package feed

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledFeedIsNoOp(t *testing.T) {
	Init("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	// Must not panic or block with no aggregator configured.
	Send(map[string]string{"hazard": "green"})
}

func TestSendDeliversNDJSONLine(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	type line struct {
		Hazard string `json:"hazard"`
	}
	got := make(chan line, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		sc := bufio.NewScanner(conn)
		if sc.Scan() {
			var l line
			_ = json.Unmarshal(sc.Bytes(), &l)
			got <- l
		}
	}()

	Init(ln.Addr().String(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	// The connect loop runs in the background; retry until the link is up.
	require.Eventually(t, func() bool {
		return getConn() != nil
	}, 3*time.Second, 10*time.Millisecond)

	Send(map[string]string{"hazard": "red"})

	select {
	case l := <-got:
		assert.Equal(t, "red", l.Hazard)
	case <-time.After(3 * time.Second):
		t.Fatal("no NDJSON line received")
	}
}
