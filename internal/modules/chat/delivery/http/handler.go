package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	chatDto "github.com/chromacord/api/internal/modules/chat/dto"
	chat "github.com/chromacord/api/internal/modules/chat/service"
	"github.com/chromacord/api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	eventJoinChat    = "join-chat"
	eventSendMessage = "send-message"
	eventNewMessage  = "new-message"
)

type wsEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type ChatHandler struct {
	chatService chat.ChatService
	upgrader    websocket.Upgrader
}

func NewChatHandler(chatService chat.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *ChatHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	res, err := h.chatService.History(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// DeleteMessage removes a message from the room history. Admin only, wired
// behind the admin middleware.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.chatService.Remove(c.Request.Context(), uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat message deleted"})
}

// HandleWebSocket upgrades the connection and relays the global room.
// Inbound frames are {"event": "...", "data": {...}} envelopes; every stored
// message comes back to all subscribers as a new-message event.
func (h *ChatHandler) HandleWebSocket(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()

	broadcasts, cancel, err := h.chatService.Subscribe(ctx)
	if err != nil {
		log.Printf("failed to subscribe to chat broker: %v", err)
		return
	}
	defer cancel()

	clientClosed := make(chan struct{})

	go func() {
		defer close(clientClosed)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var event wsEvent
			if err := json.Unmarshal(raw, &event); err != nil {
				log.Printf("dropping malformed chat frame from user %d: %v", userID, err)
				continue
			}

			switch event.Event {
			case eventJoinChat:
				// subscription is already active, nothing to do
			case eventSendMessage:
				var input chatDto.SendChatInput
				if err := json.Unmarshal(event.Data, &input); err != nil {
					log.Printf("dropping malformed chat message from user %d: %v", userID, err)
					continue
				}
				if _, err := h.chatService.Send(ctx, userID, input); err != nil {
					log.Printf("failed to send chat message for user %d: %v", userID, err)
				}
			}
		}
	}()

	for {
		select {
		case payload, ok := <-broadcasts:
			if !ok {
				return
			}
			out, err := json.Marshal(wsEvent{Event: eventNewMessage, Data: payload})
			if err != nil {
				log.Printf("failed to encode chat event: %v", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
