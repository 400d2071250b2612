package handler

import (
	"strings"

	"campus-match/internal/delivery/http/dto"
	"campus-match/internal/delivery/http/middleware"
	"campus-match/internal/pkg/response"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ProfileHandler struct {
	uc usecase.ProfileUsecase
}

func NewProfileHandler(uc usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/profiles")
	grp.Get("/:scheme", h.Get)
	grp.Put("/:scheme", h.Put)
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	p, err := h.uc.Get(c.Context(), userID, strings.TrimSpace(c.Params("scheme")))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProfile(p))
}

func (h *ProfileHandler) Put(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var req dto.ProfileUpsertRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request body", err)
	}

	p, err := h.uc.Upsert(c.Context(), userID, strings.TrimSpace(c.Params("scheme")), usecase.ProfileInput{
		DisplayName: req.DisplayName,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewProfile(p))
}
