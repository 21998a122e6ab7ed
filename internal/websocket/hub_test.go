package websocket

import (
	"encoding/json"
	"runtime"
	"testing"
	"time"

	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

func runningHub() *Hub {
	h := NewHub(nil, nopLogger{})
	go h.Run()
	return h
}

func register(h *Hub, moderatorID string, buffer int) *Client {
	c := &Client{Hub: h, ModeratorID: moderatorID, Send: make(chan []byte, buffer)}
	before := clientCount(h, moderatorID)
	h.register <- c
	// Registration is processed asynchronously by Run; wait for it to land
	// so later broadcasts deterministically see this client.
	for clientCount(h, moderatorID) == before {
		runtime.Gosched()
	}
	return c
}

func clientCount(h *Hub, moderatorID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[moderatorID])
}

func TestBroadcastAlertReachesConnectedClients(t *testing.T) {
	h := runningHub()
	c := register(h, "mod-1", 8)

	h.BroadcastAlert(dto.AlertPush{Title: "New Report Filed", Priority: "High"})

	require.Len(t, c.Send, 1)
	var envelope struct {
		Type string        `json:"type"`
		Data dto.AlertPush `json:"data"`
	}
	require.NoError(t, json.Unmarshal(<-c.Send, &envelope))
	assert.Equal(t, "alert", envelope.Type)
	assert.Equal(t, "High", envelope.Data.Priority)
}

func TestStalledClientIsDroppedWithoutPanic(t *testing.T) {
	h := runningHub()
	fast := register(h, "mod-1", 8)
	stalled := register(h, "mod-2", 0)

	h.BroadcastAlert(dto.AlertPush{Title: "New Report Filed"})

	require.Eventually(t, func() bool {
		return clientCount(h, "mod-2") == 0
	}, time.Second, 10*time.Millisecond)

	// A second broadcast must not close the stalled client's channel again.
	h.BroadcastAlert(dto.AlertPush{Title: "New Report Filed"})
	assert.Len(t, fast.Send, 2)

	select {
	case _, open := <-stalled.Send:
		assert.False(t, open)
	default:
		t.Fatal("stalled client's Send channel was never closed")
	}
}

func TestSelfPublishedRedisAlertSkipped(t *testing.T) {
	h := runningHub()
	c := register(h, "mod-1", 8)

	own, err := json.Marshal(map[string]interface{}{"type": "alert", "origin": h.id})
	require.NoError(t, err)
	h.handleRedisPayload(own)
	assert.Empty(t, c.Send)

	remote, err := json.Marshal(map[string]interface{}{"type": "alert", "origin": "other-instance"})
	require.NoError(t, err)
	h.handleRedisPayload(remote)
	assert.Len(t, c.Send, 1)

	h.handleRedisPayload([]byte("not json"))
	assert.Len(t, c.Send, 1)
}
