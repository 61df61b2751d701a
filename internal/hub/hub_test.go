package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenechat/serenechat/internal/config"
)

func newTestHub() *Hub {
	h := NewHub(config.WebSocketConfig{
		PingInterval:   time.Minute,
		PongWait:       time.Minute,
		WriteWait:      time.Second,
		MaxMessageSize: 4096,
	})
	go h.Run()
	return h
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestHub_BroadcastIncludesSender(t *testing.T) {
	h := newTestHub()

	c1 := NewClient("c1", "room", h, nil, config.WebSocketConfig{})
	c2 := NewClient("c2", "room", h, nil, config.WebSocketConfig{})
	h.Register(c1)
	h.Register(c2)
	h.JoinRoom(c1, "room")
	h.JoinRoom(c2, "room")

	require.NoError(t, h.Broadcast("room", map[string]string{"type": "message"}))

	assert.JSONEq(t, `{"type":"message"}`, string(recv(t, c1)))
	assert.JSONEq(t, `{"type":"message"}`, string(recv(t, c2)))
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	h := newTestHub()

	c1 := NewClient("c1", "a", h, nil, config.WebSocketConfig{})
	c2 := NewClient("c2", "b", h, nil, config.WebSocketConfig{})
	h.Register(c1)
	h.Register(c2)
	h.JoinRoom(c1, "a")
	h.JoinRoom(c2, "b")

	require.NoError(t, h.Broadcast("a", map[string]string{"type": "message"}))

	recv(t, c1)
	select {
	case data := <-c2.Send:
		t.Fatalf("event leaked across rooms: %s", data)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestHub_BroadcastOrderPerRoom(t *testing.T) {
	h := newTestHub()

	c1 := NewClient("c1", "room", h, nil, config.WebSocketConfig{})
	h.Register(c1)
	h.JoinRoom(c1, "room")

	for i := 0; i < 10; i++ {
		require.NoError(t, h.Broadcast("room", map[string]int{"seq": i}))
	}

	for i := 0; i < 10; i++ {
		var evt map[string]int
		require.NoError(t, json.Unmarshal(recv(t, c1), &evt))
		assert.Equal(t, i, evt["seq"])
	}
}

func TestHub_BroadcastToEmptyRoomIsNoop(t *testing.T) {
	h := newTestHub()
	require.NoError(t, h.Broadcast("ghost", map[string]string{"type": "message"}))
	assert.Equal(t, 0, h.RoomClientCount("ghost"))
}

func TestHub_RoomClientCount(t *testing.T) {
	h := newTestHub()

	c1 := NewClient("c1", "room", h, nil, config.WebSocketConfig{})
	h.Register(c1)
	h.JoinRoom(c1, "room")

	assert.Equal(t, 1, h.RoomClientCount("room"))
	assert.Equal(t, 0, h.RoomClientCount("other"))
}
