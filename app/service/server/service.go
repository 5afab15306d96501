package server

import (
	"context"
	"fmt"
	"lifeline/app/config"
	"lifeline/app/service/webhook"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

// Service owns the webhook HTTP surface.
type Service struct {
	cfg *config.Config
	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)
	webhookSvc := do.MustInvoke[*webhook.Service](di)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	webhookSvc.RegisterRoutes(app)

	return &Service{
		cfg: cfg,
		app: app,
	}, nil
}

// Run serves until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	slog.Info("Listening for webhooks", "addr", addr)

	if err := s.app.Listen(addr); err != nil {
		slog.Error("HTTP server stopped", "error", err)
	}
}
