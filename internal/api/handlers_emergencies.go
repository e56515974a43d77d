package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CreateAlert(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}
	var input createAlertInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	alert, err := handler.emergencyService.CreateAlert(c.Context(), *user, uint(circleID), input.Type, input.Message, input.RecipientIDs, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": alert})
}

func (handler *Handler) ListAlerts(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	alerts, err := handler.emergencyService.ListForUser(*user)
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, alerts)
}

func (handler *Handler) RespondToAlert(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var input respondAlertInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	alert, err := handler.emergencyService.Respond(c.Context(), *user, c.Params("publicID"), input.Message, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, alert)
}

func (handler *Handler) ResolveAlert(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	alert, err := handler.emergencyService.Resolve(*user, c.Params("publicID"), time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, alert)
}
