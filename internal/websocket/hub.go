// Package notifyws pushes in-app notifications to connected clients as
// they are created. The stream is push-only: clients never send anything
// the server acts on, and a user who is offline simply misses the push and
// reads the notification from the list endpoint instead.
package notifyws

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/gofiber/contrib/websocket"
)

type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	push       chan *envelope
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

type envelope struct {
	userID  int64
	payload []byte
}

type pushMessage struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
	UserID       string               `json:"user_id"`
	RelatedModel *string              `json:"related_model,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		push:       make(chan *envelope, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case message := <-h.push:
			h.deliver(message)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PushToUser queues a notification for every live connection the user
// has. Never blocks the caller: the push channel is buffered and a full
// buffer drops the oldest delivery guarantee, not the state change.
func (h *Hub) PushToUser(userID int64, notification *models.Notification) {
	payload, err := json.Marshal(pushMessage{
		Type:         "notification",
		Notification: notification,
		UserID:       strconv.FormatInt(userID, 10),
		RelatedModel: notification.RelatedModel,
	})
	if err != nil {
		log.Printf("notification hub encode: %v", err)
		return
	}
	select {
	case h.push <- &envelope{userID: userID, payload: payload}:
	default:
		log.Printf("notification hub push buffer full, dropping push for user %d", userID)
	}
}

func (h *Hub) deliver(message *envelope) {
	set, ok := h.clients[message.userID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- message.payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, message.userID)
	}
}

// ReadPump drains and discards client frames until the connection closes,
// keeping ping/pong alive.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
