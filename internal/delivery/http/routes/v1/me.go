package v1

import "github.com/gofiber/fiber/v3"

// RegisterMe mounts the per-user endpoints. r must already be authenticated.
func RegisterMe(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Recommendations != nil {
		h.Recommendations.RegisterRoutes(r)
	}
	if h.Priorities != nil {
		h.Priorities.RegisterRoutes(r)
	}
	if h.Profiles != nil {
		h.Profiles.RegisterRoutes(r)
	}
}
