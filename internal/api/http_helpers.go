package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

func apiSuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// serviceError translates service-layer sentinels into HTTP responses so
// handlers do not repeat the mapping.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrNotCircleMember):
		return apiError(c, fiber.StatusForbidden, "not a circle member")
	case errors.Is(err, services.ErrNotRecipient):
		return apiError(c, fiber.StatusForbidden, "not a recipient")
	case errors.Is(err, services.ErrNotSender):
		return apiError(c, fiber.StatusForbidden, "only the sender can do that")
	case errors.Is(err, services.ErrAlreadyRedeemed):
		return apiError(c, fiber.StatusConflict, "voucher already redeemed")
	case errors.Is(err, services.ErrAlertClosed):
		return apiError(c, fiber.StatusConflict, "alert is no longer active")
	case errors.Is(err, services.ErrCapacityExceeded):
		return apiError(c, fiber.StatusConflict, "circle is full")
	case errors.Is(err, services.ErrAlreadyMember):
		return apiError(c, fiber.StatusConflict, "already a member of this circle")
	case errors.Is(err, services.ErrInsufficientData):
		return apiError(c, fiber.StatusUnprocessableEntity, "not enough data for a prediction")
	}
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}
