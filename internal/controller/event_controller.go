package controller

import (
	"feature-intake-bot/internal/dto"
	"feature-intake-bot/internal/pkg/serverutils"
	"feature-intake-bot/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEventController interface {
	RegisterRoutes(r fiber.Router)
	Message(ctx *fiber.Ctx) error
	Action(ctx *fiber.Ctx) error
}

// eventController receives the chat gateway's webhooks. Both endpoints
// acknowledge as soon as the event is on the dispatch bus; the gateway
// requires the ack before it will deliver further events for the user.
type eventController struct {
	publisherService service.IPublisherService
	jwtSecret        string
}

func NewEventController(publisherService service.IPublisherService, jwtSecret string) IEventController {
	return &eventController{
		publisherService: publisherService,
		jwtSecret:        jwtSecret,
	}
}

func (c *eventController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/event/v1")
	h.Use(serverutils.GatewayAuthMiddleware(c.jwtSecret))
	h.Post("message", c.Message)
	h.Post("action", c.Action)
}

func (c *eventController) Message(ctx *fiber.Ctx) error {
	var req dto.MessageEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.publisherService.PublishInbound(dto.InboundEvent{
		Kind:   dto.EventKindMessage,
		UserID: req.UserID,
		Text:   req.Text,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Event accepted", nil))
}

func (c *eventController) Action(ctx *fiber.Ctx) error {
	var req dto.ActionEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.publisherService.PublishInbound(dto.InboundEvent{
		Kind:     dto.EventKindAction,
		UserID:   req.UserID,
		ActionID: req.ActionID,
		Value:    req.Value,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Event accepted", nil))
}
