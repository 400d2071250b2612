package app

import (
	"context"
	"strings"

	"campus-match/internal/config"
	"campus-match/internal/delivery/http/handler"
	"campus-match/internal/delivery/http/middleware"
	"campus-match/internal/delivery/http/routes"
	v1 "campus-match/internal/delivery/http/routes/v1"
	"campus-match/internal/pkg/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP app around an existing container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}
	log := logger.OrNop(c.Logger)

	checks := map[string]handler.Pinger{"cache": nil, "database": nil}
	if c.Cache.Available() {
		checks["cache"] = c.Cache
	}
	if c.DB != nil {
		checks["database"] = c.DB
	}

	handlers := v1.Handlers{Match: handler.NewMatchHandler(c.Matching)}

	var auth fiber.Handler
	switch {
	case c.Stateful():
		auth = middleware.NewAuthMiddleware(c.JWT).Middleware()
		handlers.Recommendations = handler.NewRecommendationHandler(c.Recommendations)
		handlers.Priorities = handler.NewPriorityHandler(c.Priorities)
		handlers.Profiles = handler.NewProfileHandler(c.Profiles)
	case c.DB != nil:
		log.Warn("JWT_ACCESS_SECRET not set, /me routes disabled")
	}

	routes.NewRegistry(handler.NewHealthHandler(checks), handlers, auth).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", eris.New("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
