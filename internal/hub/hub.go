package hub

import (
	"encoding/json"
	"sync"

	"github.com/serenechat/serenechat/internal/config"
	"github.com/serenechat/serenechat/pkg/log"
)

// Hub owns the per-room broadcast topics. Rooms are isolated: an event
// published to one room never reaches another. A single run loop drains the
// broadcast channel, so per-room delivery order matches publish order.
type Hub struct {
	clients    map[string]*Client            // clientID -> client
	rooms      map[string]map[string]*Client // roomID -> clientID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage
	mu         sync.RWMutex
	config     config.WebSocketConfig
}

type roomMessage struct {
	RoomID  string
	Payload []byte
}

func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
		config:     cfg,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldConnID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				for roomID, members := range h.rooms {
					delete(members, client.ID)
					if len(members) == 0 {
						delete(h.rooms, roomID)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.L().Debug().Str(log.FieldConnID, client.ID).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.rooms[msg.RoomID] {
				select {
				case client.Send <- msg.Payload:
				default:
					// Slow consumer, drop the connection.
					go h.Unregister(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// JoinRoom subscribes a client to a room's broadcast topic.
func (h *Hub) JoinRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][client.ID] = client
	log.L().Info().Str(log.FieldConnID, client.ID).Str(log.FieldRoomID, roomID).Msg("client joined room")
}

// Broadcast publishes message to every subscriber of the room, the sender
// included. Publishing to a room with no subscribers is a harmless no-op.
func (h *Hub) Broadcast(roomID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.broadcast <- &roomMessage{
		RoomID:  roomID,
		Payload: data,
	}
	return nil
}

func (h *Hub) RoomClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
