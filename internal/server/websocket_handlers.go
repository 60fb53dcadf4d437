package server

import (
	"errors"
	"log/slog"

	"cinetheque/internal/featureflags"
	"cinetheque/internal/middleware"
	"cinetheque/internal/models"
	"cinetheque/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketForumHandler handles GET /api/ws/forum. Clients are put in the
// forum-wide room and send {"action":"join","topic_id":N} to follow a topic.
func (s *Server) WebSocketForumHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userID, _ := conn.Locals("userID").(uint)

		client, err := s.forumHub.Register(userID, conn)
		if err != nil {
			middleware.Logger.Warn("forum websocket rejected",
				slog.Uint64("user_id", uint64(userID)),
				slog.String("error", err.Error()),
			)
			reason := "registration failed"
			if errors.Is(err, notifications.ErrConnectionLimit) {
				reason = "too many connections"
			}
			_ = conn.WriteJSON(fiber.Map{"error": reason})
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("WebSocket upgrade required"))
		}
		userID, _ := c.Locals("userID").(uint)
		if !s.featureFlags.Enabled(featureflags.ForumRealtime, userID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Feature", featureflags.ForumRealtime))
		}
		return upgrade(c)
	}
}
