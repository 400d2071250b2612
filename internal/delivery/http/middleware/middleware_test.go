package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"campus-match/internal/pkg/jwt"
	"campus-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestApp(logger *zap.Logger) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(logger).Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	return app
}

func call(t *testing.T, app *fiber.App, path string, header map[string]string) (int, response.SemanticResponse) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out response.SemanticResponse
	require.NoError(t, json.Unmarshal(b, &out))
	return resp.StatusCode, out
}

func TestErrorMiddlewareHidesInternalCauses(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := newTestApp(zap.New(core))
	app.Get("/bad", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "Unknown scheme", map[string]string{"scheme": "x"}, nil)
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", nil, errors.New("dial tcp"))
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("nil map")
	})

	status, body := call(t, app, "/bad", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Unknown scheme", body.Message)
	assert.Equal(t, map[string]any{"scheme": "x"}, body.Data)

	status, body = call(t, app, "/boom", nil)
	assert.Equal(t, 500, status)
	assert.Equal(t, response.MessageInternalServerError, body.Message)

	status, body = call(t, app, "/panic", nil)
	assert.Equal(t, 500, status)
	assert.Equal(t, response.MessageInternalServerError, body.Message)

	status, _ = call(t, app, "/missing", nil)
	assert.Equal(t, 404, status)

	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
	assert.Equal(t, 4, logs.FilterMessage("http request").Len())
}

func TestAccessLogKeepsRequestID(t *testing.T) {
	app := newTestApp(nil)
	app.Get("/rid", func(c fiber.Ctx) error { return response.OK(c, RequestID(c)) })

	_, body := call(t, app, "/rid", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", body.Data)

	_, body = call(t, app, "/rid", nil)
	_, err := uuid.Parse(body.Data.(string))
	assert.NoError(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("secret", time.Hour)
	app := newTestApp(nil)
	app.Get("/me", NewAuthMiddleware(svc).Middleware(), func(c fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "", nil, nil)
		}
		return response.OK(c, id.String())
	})

	user := uuid.New()
	tok, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	status, body := call(t, app, "/me", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, 200, status)
	assert.Equal(t, user.String(), body.Data)

	status, body = call(t, app, "/me", nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, "Unauthorized", body.Message)

	status, body = call(t, app, "/me", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, 401, status)
	assert.Equal(t, "Invalid token", body.Message)

	status, _ = call(t, app, "/me", map[string]string{"Authorization": "Basic " + tok})
	assert.Equal(t, 401, status)
}

func TestBearerTokenFromHeader(t *testing.T) {
	tok, ok := bearerTokenFromHeader("  bearer   abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerTokenFromHeader("Bearer ")
	assert.False(t, ok)
}
