package controller

import (
	"chat-moderation-be/internal/dto"
	"chat-moderation-be/internal/pkg/serverutils"
	"chat-moderation-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IWebhookController is the ingress for chat platform events. It validates
// the envelope and hands the raw payload to the event topic; all actual
// moderation work happens downstream on the ingest goroutine.
type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	ReceiveEvent(ctx *fiber.Ctx) error
}

type webhookController struct {
	publisherService service.IPublisherService
}

func NewWebhookController(publisherService service.IPublisherService) IWebhookController {
	return &webhookController{
		publisherService: publisherService,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook")
	h.Post("events", c.ReceiveEvent)
}

func (c *webhookController) ReceiveEvent(ctx *fiber.Ctx) error {
	var req dto.ChatEvent
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid event payload")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	switch req.Type {
	case dto.ChatEventMessageCreated:
		if req.Message == nil {
			return fiber.NewError(fiber.StatusBadRequest, "message_created event requires a message")
		}
	case dto.ChatEventReactionAdded:
		if req.Reaction == nil {
			return fiber.NewError(fiber.StatusBadRequest, "reaction_added event requires a reaction")
		}
	}

	if err := c.publisherService.Publish(ctx.Context(), ctx.Body()); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Event accepted", nil))
}
