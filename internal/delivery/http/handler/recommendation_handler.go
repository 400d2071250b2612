package handler

import (
	"strings"

	"campus-match/internal/delivery/http/dto"
	"campus-match/internal/delivery/http/middleware"
	"campus-match/internal/pkg/response"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/matches", h.List)
	r.Post("/matches/:id/dismiss", h.Dismiss)
}

func (h *RecommendationHandler) List(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	scheme := strings.TrimSpace(c.Query("scheme"))
	if scheme == "" {
		return badRequest("scheme is required", nil)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}

	items, err := h.uc.Recommend(c.Context(), userID, usecase.RecommendationParams{Scheme: scheme, Limit: limit})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRecommendations(items))
}

func (h *RecommendationHandler) Dismiss(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest("Invalid candidate id", err)
	}
	scheme := strings.TrimSpace(c.Query("scheme"))
	if scheme == "" {
		return badRequest("scheme is required", nil)
	}

	if err := h.uc.Dismiss(c.Context(), userID, scheme, candidateID); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}
