package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) CreateCircle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var input createCircleInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	circle, err := handler.circleService.CreateCircle(*user, input.Name, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": circle})
}

func (handler *Handler) JoinCircle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var input joinCircleInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	circle, err := handler.circleService.JoinByInviteCode(*user, input.InviteCode, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, circle)
}

func (handler *Handler) ListCircles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circles, err := handler.circleService.ListForUser(*user)
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, circles)
}

func (handler *Handler) ListCircleMembers(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}

	members, err := handler.circleService.MembersForMember(*user, uint(circleID))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, members)
}

func (handler *Handler) LeaveCircle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}

	if err := handler.circleService.Leave(*user, uint(circleID)); err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, fiber.Map{"left": true})
}

func (handler *Handler) SetCirclePrivacy(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}
	var input privacyInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.circleService.SetPrivacy(*user, uint(circleID), input.PrivacyLevel); err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, fiber.Map{"privacy_level": input.PrivacyLevel})
}
