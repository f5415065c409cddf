package handlers

import (
	"strconv"
	"strings"

	notifyws "github.com/adityarane/GymBuddyBack/internal/websocket"
	"github.com/adityarane/GymBuddyBack/pkg/utils"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub       *notifyws.Hub
	jwtSecret string
}

func NewWSHandler(hub *notifyws.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret}
}

// Upgrade authenticates the websocket handshake. Browsers cannot set an
// Authorization header on a websocket, so the token may also arrive as a
// query parameter.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("ws_user_id", userID)
	return c.Next()
}

// Serve runs the notification stream for an upgraded connection.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("ws_user_id").(int64)
		if !ok {
			_ = conn.Close()
			return
		}

		client := notifyws.NewClient(h.hub, conn, userID)
		h.hub.Register(client)

		go client.WritePump()
		client.ReadPump()
	})
}
