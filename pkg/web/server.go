// Package web serves the assistant's monitor: a small JSON API over
// the live state plus a websocket feed of turn and timer events. The
// data endpoints pull from callbacks the assistant wires in, so the
// server holds no state of its own; the event feed rides the
// broadcast hub.
package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/parvislabs/go-parvis/pkg/hub"
)

// Server is the monitor HTTP and websocket server.
type Server struct {
	app    *fiber.App
	port   string
	logger *slog.Logger

	events *hub.Hub

	// Data sources, wired by the assistant before Start. A nil source
	// answers 503.
	OnStatus  func() any
	OnStats   func() any
	OnHistory func() any
	OnIntents func() any
}

// NewServer creates the monitor server on the given port. A nil
// logger falls back to the default.
func NewServer(port string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		port:   port,
		logger: logger.With("component", "web.server"),
		events: hub.New("events", logger),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Parvis Monitor",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/stats", s.handleStats)
	api.Get("/history", s.handleHistory)
	api.Get("/intents", s.handleIntents)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// Start runs the hub and serves until Shutdown. It blocks.
func (s *Server) Start(ctx context.Context) error {
	go s.events.Run(ctx)
	s.logger.Info("monitor listening", "addr", "http://localhost:"+s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync serves in a goroutine, logging a failure instead of
// returning it.
func (s *Server) StartAsync(ctx context.Context) {
	go func() {
		if err := s.Start(ctx); err != nil {
			s.logger.Error("monitor server failed", "error", err)
		}
	}()
}

// Events exposes the broadcast hub, mainly for client counting.
func (s *Server) Events() *hub.Hub {
	return s.events
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
