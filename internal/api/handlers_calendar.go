package api

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/models"
	"github.com/owletdev/nocturna/internal/services"
)

func (handler *Handler) GetCircleCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	circleID, err := c.ParamsInt("id")
	if err != nil || circleID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid circle id")
	}

	colors, err := parseColorAssignments(c.Query("colors"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid colors")
	}

	calendar, err := handler.calendarService.BuildForCircle(*user, uint(circleID), colors, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}
	return apiSuccess(c, calendar)
}

func (handler *Handler) CalendarTap(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var input calendarTapInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	day, err := services.ParseDayKey(input.Date, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	now := time.Now().In(handler.location)

	tap := services.TapContext{
		SharedView: input.SharedView,
		Now:        now,
		Location:   handler.location,
	}

	if input.SharedView {
		if input.CircleID == 0 {
			return apiError(c, fiber.StatusBadRequest, "circle id is required for the shared view")
		}
		names, _, err := handler.calendarService.MemberNamesAt(*user, input.CircleID, day, input.Colors, now)
		if err != nil {
			return serviceError(c, err)
		}
		tap.MemberNames = names
	} else {
		inOwn, err := handler.dayInOwnRecord(*user, day)
		if err != nil {
			return serviceError(c, err)
		}
		tap.InOwnRecord = inOwn
	}

	result := services.HandleDayTap(input.State, day, tap)
	return apiSuccess(c, result)
}

func (handler *Handler) dayInOwnRecord(user models.User, day time.Time) (bool, error) {
	records, err := handler.periodService.ListRecords(user)
	if err != nil {
		return false, err
	}
	target := services.DateAtLocation(day, handler.location)
	for _, record := range records {
		start := services.DateAtLocation(record.StartDate, handler.location)
		end := services.DateAtLocation(record.EndDate, handler.location)
		if !target.Before(start) && !target.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func parseColorAssignments(raw string) (map[uint]string, error) {
	if raw == "" {
		return nil, nil
	}
	colors := map[uint]string{}
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		return nil, err
	}
	return colors, nil
}
