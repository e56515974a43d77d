package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) SendVoucher(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}
	var input sendVoucherInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	vouchers, err := handler.voucherService.Send(c.Context(), *user, uint(circleID), input.Type, input.Message, input.RecipientIDs, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": vouchers})
}

func (handler *Handler) ListVouchers(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	vouchers, err := handler.voucherService.ListForUser(*user)
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, vouchers)
}

func (handler *Handler) RedeemVoucher(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	voucher, err := handler.voucherService.Redeem(c.Context(), *user, c.Params("publicID"), time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, voucher)
}
