package database

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClients_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	clients, err := NewRedisClients("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer clients.Close()

	assert.NotNil(t, clients.Publish)
	assert.NotNil(t, clients.PubSub)
}

func TestNewRedisClients_BadURL(t *testing.T) {
	_, err := NewRedisClients("not-a-url")
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestNewRedisClients_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClients("redis://" + addr + "/0")
	assert.ErrorContains(t, err, "failed to ping Redis (publish)")
}
