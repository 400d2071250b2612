package handler

import (
	"errors"
	"strconv"
	"strings"

	"campus-match/internal/delivery/http/middleware"
	"campus-match/internal/domain/matching"
	"campus-match/internal/pkg/response"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type errorDetail struct {
	Detail string `json:"detail"`
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, matching.ErrSchemeNotFound):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown scheme", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, matching.ErrUnknownField):
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown field", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, matching.ErrTooManyPriorities), errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid input", errorDetail{Detail: err.Error()}, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func badRequest(message string, cause error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, message, nil, cause)
}

func queryInt(c fiber.Ctx, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("Invalid "+key, err)
	}
	return n, nil
}
