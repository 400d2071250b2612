package handler

import (
	"strings"

	"campus-match/internal/delivery/http/dto"
	"campus-match/internal/domain/matching"
	"campus-match/internal/pkg/response"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/schemes", h.ListSchemes)
	r.Post("/match", h.Rank)
}

func (h *MatchHandler) ListSchemes(c fiber.Ctx) error {
	return response.OK(c, dto.NewSchemes(h.uc.Schemes()))
}

// Rank scores the candidates in the request body against its self profile.
// A request that matches nobody is still a 200 with an empty list.
func (h *MatchHandler) Rank(c fiber.Ctx) error {
	var req dto.RankRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request body", err)
	}
	if strings.TrimSpace(req.Scheme) == "" {
		return badRequest("scheme is required", nil)
	}

	in := usecase.RankRequest{
		Scheme:     req.Scheme,
		Self:       req.Self.ToMatching(),
		Candidates: make([]matching.Profile, 0, len(req.Candidates)),
		Priorities: req.Priorities,
		Filters:    make([]matching.Filter, 0, len(req.Filters)),
		Limit:      req.Limit,
	}
	for _, cand := range req.Candidates {
		in.Candidates = append(in.Candidates, cand.ToMatching())
	}
	for _, f := range req.Filters {
		in.Filters = append(in.Filters, matching.Filter{Field: strings.TrimSpace(f.Field), Value: f.Value})
	}

	results, err := h.uc.Rank(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, dto.NewRankResponse(strings.TrimSpace(req.Scheme), results))
}
