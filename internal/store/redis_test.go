package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without a configured mirror every operation must be a safe no-op; the
// dashboard runs standalone.
func TestNilSafeWithoutRedis(t *testing.T) {
	require.False(t, Enabled())

	MirrorSnapshot("session", map[string]any{"hazard": "green"})

	allowed, count, err := IncDailyCmdCounter("F", 10)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, int64(0), count)
}

func TestInitRedisUnreachable(t *testing.T) {
	err := InitRedis("127.0.0.1:1", 0)
	require.Error(t, err)
	assert.False(t, Enabled())
}
