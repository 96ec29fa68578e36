package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"disclosure-engine-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)
	return hub
}

func TestHubSendReachesEveryDevice(t *testing.T) {
	hub := startHub(t)
	userID := uuid.New()
	phone := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	laptop := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 4)}
	hub.register <- phone
	hub.register <- laptop
	require.Eventually(t, func() bool { return hub.Connected(userID) == 2 }, time.Second, 5*time.Millisecond)

	hub.Send(userID, "report_status", map[string]string{"status": "ready"})

	for _, c := range []*Client{phone, laptop} {
		select {
		case frame := <-c.Send:
			var msg struct {
				Type string            `json:"type"`
				Data map[string]string `json:"data"`
			}
			require.NoError(t, json.Unmarshal(frame, &msg))
			assert.Equal(t, "report_status", msg.Type)
			assert.Equal(t, "ready", msg.Data["status"])
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
}

func TestHubSendIgnoresOtherUsers(t *testing.T) {
	hub := startHub(t)
	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.Connected(c.UserID) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(uuid.New(), "report_status", nil)

	assert.Len(t, c.Send, 0)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.Connected(c.UserID) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(c.UserID, "a", nil)
	hub.Send(c.UserID, "b", nil)

	assert.Eventually(t, func() bool { return hub.Connected(c.UserID) == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := startHub(t)
	c := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 1)}
	hub.register <- c
	hub.unregister <- c

	require.Eventually(t, func() bool { return hub.Connected(c.UserID) == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)
}
