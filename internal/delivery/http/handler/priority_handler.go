package handler

import (
	"strings"

	"campus-match/internal/delivery/http/dto"
	"campus-match/internal/delivery/http/middleware"
	"campus-match/internal/pkg/response"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type PriorityHandler struct {
	uc usecase.PriorityUsecase
}

func NewPriorityHandler(uc usecase.PriorityUsecase) *PriorityHandler {
	return &PriorityHandler{uc: uc}
}

func (h *PriorityHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/priorities")
	grp.Get("/:scheme", h.Get)
	grp.Post("/:scheme/:field", h.Toggle)
}

func (h *PriorityHandler) Get(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	scheme := strings.TrimSpace(c.Params("scheme"))

	p, err := h.uc.Get(c.Context(), userID, scheme)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewPriorities(scheme, p))
}

// Toggle adds or removes one field. Selecting a fourth field leaves the
// selection as it was.
func (h *PriorityHandler) Toggle(c fiber.Ctx) error {
	userID, _ := middleware.UserID(c)
	scheme := strings.TrimSpace(c.Params("scheme"))

	p, err := h.uc.Toggle(c.Context(), userID, scheme, c.Params("field"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewPriorities(scheme, p))
}
