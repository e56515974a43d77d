package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/owletdev/nocturna/internal/models"
	"github.com/owletdev/nocturna/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(input.Email, input.Password, input.DisplayName, time.Now().In(handler.location))
	if err != nil {
		return serviceError(c, err)
	}

	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token": token,
			"user":  userProfile(user),
		},
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return serviceError(c, err)
	}

	token, err := handler.buildToken(&user, authTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return apiSuccess(c, fiber.Map{
		"token": token,
		"user":  userProfile(user),
	})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return apiSuccess(c, userProfile(*user))
}

func userProfile(user models.User) fiber.Map {
	return fiber.Map{
		"id":                   user.ID,
		"email":                user.Email,
		"display_name":         user.DisplayName,
		"must_change_password": user.MustChangePassword,
	}
}
