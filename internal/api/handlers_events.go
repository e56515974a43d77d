package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CreateEvent(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}
	var input createEventInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	startsAt, err := time.ParseInLocation(time.RFC3339, input.StartsAt, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid starts_at")
	}

	event, err := handler.eventService.Create(*user, uint(circleID), input.Title, input.Description, input.Location, startsAt, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": event})
}

func (handler *Handler) ListEvents(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}

	events, err := handler.eventService.ListForMember(*user, uint(circleID))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, events)
}

func (handler *Handler) RSVPEvent(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var input rsvpInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	event, err := handler.eventService.RSVP(*user, c.Params("publicID"), input.Status, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, event)
}
