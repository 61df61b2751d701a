package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/serenechat/serenechat/internal/config"
	"github.com/serenechat/serenechat/internal/domain"
	"github.com/serenechat/serenechat/internal/hub"
	"github.com/serenechat/serenechat/internal/service"
	"github.com/serenechat/serenechat/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub         *hub.Hub
	service     service.ChatService
	wsCfg       config.WebSocketConfig
	defaultRoom string
}

func NewWSHandler(h *hub.Hub, svc service.ChatService, wsCfg config.WebSocketConfig, defaultRoom string) *WSHandler {
	return &WSHandler{
		hub:         h,
		service:     svc,
		wsCfg:       wsCfg,
		defaultRoom: defaultRoom,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/chat/ws", h.HandleWebSocket)
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	roomID := c.Query("room")
	if roomID == "" {
		roomID = h.defaultRoom
	}

	client := hub.NewClient(uuid.New().String(), roomID, h.hub, conn, h.wsCfg)

	h.hub.Register(client)
	if err := h.service.HandleOpen(context.Background(), client); err != nil {
		log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("session open failed")
	}

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleMessage)
		h.service.HandleDisconnect(context.Background(), client)
	}()
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var base domain.BaseMessage
	if err := json.Unmarshal(message, &base); err != nil {
		// Malformed payload: tell the sender only, mutate nothing.
		client.SendJSON(domain.NewErrorMessage("invalid message format"))
		return
	}

	ctx := context.Background()

	switch base.Type {
	case domain.MsgTypeJoin:
		if err := h.service.HandleJoin(ctx, client); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("join failed")
		}

	case domain.MsgTypeChat:
		var msg domain.ChatInbound
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendJSON(domain.NewErrorMessage("invalid chat message"))
			return
		}
		if err := h.service.HandleChat(ctx, client, msg.Username, msg.Message); err != nil {
			log.L().Warn().Err(err).Str(log.FieldConnID, client.ID).Msg("chat message failed")
		}

	default:
		// Unknown types are ignored for forward compatibility.
		log.L().Debug().Str("type", base.Type).Msg("ignoring unknown message type")
	}
}
