package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campus-match/internal/config"
	"campus-match/internal/delivery/http/handler"
	"campus-match/internal/delivery/http/middleware"
	v1 "campus-match/internal/delivery/http/routes/v1"
	"campus-match/internal/domain/matching"
	"campus-match/internal/pkg/jwt"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type priorities struct{ seen uuid.UUID }

func (p *priorities) Get(_ context.Context, userID uuid.UUID, _ string) (matching.Priorities, error) {
	p.seen = userID
	return matching.Priorities{}, nil
}

func (p *priorities) Toggle(_ context.Context, userID uuid.UUID, _ string, field string) (matching.Priorities, error) {
	p.seen = userID
	return matching.NewPriorities(field), nil
}

func newApp(auth fiber.Handler, prio usecase.PriorityUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(zap.NewNop()).Middleware())

	matchUC := usecase.NewMatchingUsecase(matching.DefaultRegistry(), nil, nil, config.MatchConfig{MaxLimit: 50})
	NewRegistry(
		handler.NewHealthHandler(nil),
		v1.Handlers{
			Match:      handler.NewMatchHandler(matchUC),
			Priorities: handler.NewPriorityHandler(prio),
		},
		auth,
	).Register(app)
	return app
}

func status(t *testing.T, app *fiber.App, method, target, token, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRegistryPublicRoutes(t *testing.T) {
	app := newApp(nil, &priorities{})

	assert.Equal(t, http.StatusOK, status(t, app, fiber.MethodGet, "/health", "", ""))
	assert.Equal(t, http.StatusOK, status(t, app, fiber.MethodGet, "/api/v1/schemes", "", ""))
	assert.Equal(t, http.StatusOK, status(t, app, fiber.MethodPost, "/api/v1/match", "", `{"scheme":"peer","self":{"id":"me"}}`))
}

func TestRegistryWithoutAuthSkipsMe(t *testing.T) {
	app := newApp(nil, &priorities{})
	assert.Equal(t, http.StatusNotFound, status(t, app, fiber.MethodGet, "/api/v1/me/priorities/roommate", "", ""))
}

func TestRegistryProtectedRoutes(t *testing.T) {
	svc := jwt.NewHMACService("test-secret", time.Minute)
	prio := &priorities{}
	app := newApp(middleware.NewAuthMiddleware(svc).Middleware(), prio)

	assert.Equal(t, http.StatusUnauthorized, status(t, app, fiber.MethodGet, "/api/v1/me/priorities/roommate", "", ""))
	assert.Equal(t, http.StatusUnauthorized, status(t, app, fiber.MethodGet, "/api/v1/me/priorities/roommate", "garbage", ""))

	userID := uuid.New()
	token, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status(t, app, fiber.MethodGet, "/api/v1/me/priorities/roommate", token, ""))
	assert.Equal(t, userID, prio.seen)
	assert.Equal(t, http.StatusOK, status(t, app, fiber.MethodPost, "/api/v1/me/priorities/roommate/budget", token, ""))

	// stateless matching stays public
	assert.Equal(t, http.StatusOK, status(t, app, fiber.MethodGet, "/api/v1/schemes", "", ""))
}
