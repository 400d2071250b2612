package v1

import (
	"campus-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups the v1 endpoints. Nil members are skipped.
type Handlers struct {
	Match           *handler.MatchHandler
	Recommendations *handler.RecommendationHandler
	Priorities      *handler.PriorityHandler
	Profiles        *handler.ProfileHandler
}

func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
	if auth != nil {
		RegisterMe(r.Group("/me", auth), h)
	}
}
