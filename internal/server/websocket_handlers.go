package server

import (
	"log/slog"

	"lineup/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterWebSocketRoutes wires the realtime endpoint. Clients connect with
// a JWT in the token query parameter and receive message events for every
// conversation they participate in.
func (s *Server) RegisterWebSocketRoutes() {
	s.app.Use("/api/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/api/ws", middleware.WebSocketAuthRequired, websocket.New(s.handleWebSocket))
}

func (s *Server) handleWebSocket(conn *websocket.Conn) {
	profileID, ok := conn.Locals("userID").(string)
	if !ok || profileID == "" {
		_ = conn.Close()
		return
	}

	client, err := s.hub.Register(profileID, conn)
	if err != nil {
		slog.Warn("WebSocket registration rejected", "profile_id", profileID, "error", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "connection limit reached"))
		_ = conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}
