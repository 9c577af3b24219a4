package control

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendRelaysCommand(t *testing.T) {
	var gotCmd string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotCmd = body["cmd"]
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	r := NewRelay(srv.URL, testLogger())
	res := r.Send(context.Background(), "F")
	assert.True(t, res.OK)
	assert.Equal(t, "F", gotCmd)
}

func TestSendUnknownCommandRejectedLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called for unknown commands")
	}))
	defer srv.Close()

	r := NewRelay(srv.URL, testLogger())
	res := r.Send(context.Background(), "WARP")
	assert.False(t, res.OK)
	assert.Equal(t, "unknown_command", res.Error)
}

func TestSendBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"ok": false, "status": 502}`))
	}))
	defer srv.Close()

	r := NewRelay(srv.URL, testLogger())
	res := r.Send(context.Background(), "S")
	assert.False(t, res.OK)
	assert.Equal(t, 502, res.Status)
}

func TestSendTransportError(t *testing.T) {
	r := NewRelay("http://127.0.0.1:1/control", testLogger())
	res := r.Send(context.Background(), "B")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
}

func TestSendThrottlesRepeats(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	r := NewRelay(srv.URL, testLogger())
	first := r.Send(context.Background(), "SLOW")
	second := r.Send(context.Background(), "SLOW")

	assert.True(t, first.OK)
	assert.False(t, second.OK)
	assert.Equal(t, "throttled", second.Error)
	assert.Equal(t, 1, calls)
}

func TestDefaultCommandSet(t *testing.T) {
	r := NewRelay("http://127.0.0.1:1", testLogger())
	for _, name := range []string{"F", "B", "L", "R", "S", "SLOW", "FAST"} {
		_, ok := r.registry[name]
		assert.True(t, ok, "missing command %s", name)
	}
}
