package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/parvislabs/go-parvis/pkg/hub"
)

// respond serves the callback's snapshot, or 503 when the assistant
// never wired one.
func (s *Server) respond(c *fiber.Ctx, source func() any) error {
	if source == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "data source not configured",
		})
	}
	return c.JSON(source())
}

// handleStatus returns the assistant's status snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return s.respond(c, s.OnStatus)
}

// handleStats returns conversation performance statistics.
func (s *Server) handleStats(c *fiber.Ctx) error {
	return s.respond(c, s.OnStats)
}

// handleHistory returns the recorded conversation turns.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	return s.respond(c, s.OnHistory)
}

// handleIntents returns intent usage statistics and capabilities.
func (s *Server) handleIntents(c *fiber.Ctx) error {
	return s.respond(c, s.OnIntents)
}

// handleEventsWS subscribes the connection to the event feed until it
// closes.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run()
}
