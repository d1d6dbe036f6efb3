package handler

import (
	"strconv"

	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/match"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func actorFromCtx(c fiber.Ctx) (uuid.UUID, match.Role, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	role, ok := middleware.Role(c)
	if !ok {
		return uuid.Nil, "", middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, role, nil
}

func parseParamUUID(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	return id, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
