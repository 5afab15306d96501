package webhook

import (
	"errors"
	"log/slog"
	"strings"

	"lifeline/app/service/guard"
	"lifeline/app/service/profile"

	"github.com/gofiber/fiber/v2"
)

type webhookRequest struct {
	AlertType string `json:"alert_type"`
	Recipient string `json:"recipient" validate:"required"`
	Text      string `json:"text"`
}

func (s *Service) RegisterRoutes(app *fiber.App) {
	app.Get("/", s.handleHealth)
	app.Post("/webhook", s.handleWebhook)
}

func (s *Service) handleHealth(c *fiber.Ctx) error {
	return c.SendString("Webhook server is running")
}

func (s *Service) handleWebhook(c *fiber.Ctx) error {
	var request webhookRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid JSON body")
	}

	if err := s.validate.Struct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("recipient is required")
	}

	outcome, err := s.HandleMessage(c.UserContext(), request.AlertType, request.Recipient, strings.TrimSpace(request.Text))

	switch {
	case errors.Is(err, profile.ErrNotFound):
		return c.Status(fiber.StatusNotFound).SendString("User not found")

	case errors.Is(err, guard.ErrBusy):
		return c.Status(fiber.StatusTooManyRequests).SendString("A message for this sender is already processing")

	case err != nil:
		slog.Error("Webhook processing failed",
			"sender", request.Recipient,
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal error")
	}

	slog.Info("Processed webhook",
		"sender", request.Recipient,
		"outcome", outcome,
	)

	return c.SendString("Webhook received")
}
