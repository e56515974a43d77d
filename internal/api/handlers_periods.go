package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/services"
)

func (handler *Handler) CreatePeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var input createPeriodInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	start, err := services.ParseDayKey(input.StartDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid start date")
	}
	end, err := services.ParseDayKey(input.EndDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid end date")
	}

	record, err := handler.periodService.CreateRecord(*user, start, end, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": record})
}

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	records, err := handler.periodService.ListRecords(*user)
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, records)
}

func (handler *Handler) DeletePeriod(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, err := c.ParamsInt("id")
	if err != nil || recordID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid record id")
	}

	if err := handler.periodService.DeleteRecord(*user, uint(recordID)); err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, fiber.Map{"deleted": true})
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	prediction, err := handler.periodService.Predict(*user)
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, prediction)
}

func (handler *Handler) LogSymptoms(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, err := c.ParamsInt("id")
	if err != nil || recordID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid record id")
	}
	var input logSymptomsInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	day, err := services.ParseDayKey(input.Date, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.periodService.LogSymptoms(*user, uint(recordID), day, input.Cramps, input.Mood, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, entry)
}

func (handler *Handler) ListSymptoms(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recordID, err := c.ParamsInt("id")
	if err != nil || recordID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid record id")
	}

	entries, err := handler.periodService.ListSymptoms(*user, uint(recordID))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, entries)
}
