package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campus-match/internal/config"
	"campus-match/internal/delivery/http/middleware"
	"campus-match/internal/domain/matching"
	"campus-match/internal/repository"
	"campus-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(zap.NewNop()).Middleware())
	app.Use(func(c fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals(middleware.CtxUserIDKey, userID)
		}
		return c.Next()
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func matchApp() *fiber.App {
	uc := usecase.NewMatchingUsecase(matching.DefaultRegistry(), nil, nil, config.MatchConfig{DefaultLimit: 20, MaxLimit: 50, MaxCandidates: 100})
	app := newApp(uuid.Nil)
	NewMatchHandler(uc).RegisterRoutes(app)
	return app
}

func TestMatchHandlerRank(t *testing.T) {
	app := matchApp()

	body := `{
		"scheme": "roommate",
		"self": {"id": "me", "attributes": {"city": "Leeds", "budget": [400, 600], "hobbies": ["chess"]}},
		"candidates": [
			{"id": "a", "attributes": {"city": "leeds", "budget": [500, 800], "hobbies": ["Chess", "go"]}},
			{"id": "b", "attributes": {"city": "York"}},
			{"id": "me", "attributes": {"city": "Leeds"}}
		]
	}`
	status, env := do(t, app, fiber.MethodPost, "/match", body)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Scheme  string `json:"scheme"`
		Results []struct {
			CandidateID   string   `json:"candidate_id"`
			Score         float64  `json:"score"`
			MatchedFields []string `json:"matched_fields"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "roommate", data.Scheme)
	require.Len(t, data.Results, 1)
	assert.Equal(t, "a", data.Results[0].CandidateID)
	assert.InDelta(t, 7.0, data.Results[0].Score, 1e-9)
	assert.Equal(t, []string{"city", "budget", "hobbies"}, data.Results[0].MatchedFields)
}

func TestMatchHandlerRankEmpty(t *testing.T) {
	status, env := do(t, matchApp(), fiber.MethodPost, "/match", `{"scheme":"peer","self":{"id":"me"}}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"scheme":"peer","results":[]}`, string(env.Data))
}

func TestMatchHandlerRankRejects(t *testing.T) {
	app := matchApp()

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"malformed body", `{"scheme":`, "Invalid request body"},
		{"missing scheme", `{"self":{"id":"me"}}`, "scheme is required"},
		{"unknown scheme", `{"scheme":"dating"}`, "Unknown scheme"},
		{"unknown priority", `{"scheme":"peer","priorities":["height"]}`, "Unknown field"},
		{"unknown filter", `{"scheme":"peer","filters":[{"field":"height","value":180}]}`, "Unknown field"},
		{"negative limit", `{"scheme":"peer","limit":-1}`, "Invalid input"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := do(t, app, fiber.MethodPost, "/match", tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.message, env.Message)
		})
	}
}

func TestMatchHandlerSchemes(t *testing.T) {
	status, env := do(t, matchApp(), fiber.MethodGet, "/schemes", "")
	require.Equal(t, http.StatusOK, status)

	var data []struct {
		Name   string `json:"name"`
		Limit  int    `json:"limit"`
		Fields []struct {
			Name string `json:"name"`
			Rule string `json:"rule"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 2)
	assert.Equal(t, "peer", data[0].Name)
	assert.Equal(t, "roommate", data[1].Name)
	assert.Equal(t, 10, data[1].Limit)
	assert.Equal(t, "preference", data[1].Fields[2].Rule)
}

type stubRecommendations struct {
	items     []usecase.RecommendedMatch
	params    usecase.RecommendationParams
	dismissed uuid.UUID
}

func (s *stubRecommendations) Recommend(_ context.Context, userID uuid.UUID, p usecase.RecommendationParams) ([]usecase.RecommendedMatch, error) {
	if userID == uuid.Nil {
		return nil, usecase.ErrUnauthorized
	}
	s.params = p
	return s.items, nil
}

func (s *stubRecommendations) Dismiss(_ context.Context, userID uuid.UUID, scheme string, candidateID uuid.UUID) error {
	if userID == uuid.Nil {
		return usecase.ErrUnauthorized
	}
	if scheme != matching.SchemeRoommate {
		return matching.ErrSchemeNotFound
	}
	s.dismissed = candidateID
	return nil
}

func TestRecommendationHandler(t *testing.T) {
	other := uuid.New()
	stub := &stubRecommendations{items: []usecase.RecommendedMatch{{
		UserID:      other,
		DisplayName: "Sam",
		Result:      matching.Result{CandidateID: other.String(), Score: 4, MatchedFields: []string{"hobbies"}},
	}}}
	app := newApp(uuid.New())
	NewRecommendationHandler(stub).RegisterRoutes(app)

	status, env := do(t, app, fiber.MethodGet, "/matches?scheme=roommate&limit=5", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, usecase.RecommendationParams{Scheme: "roommate", Limit: 5}, stub.params)

	var data []struct {
		UserID      uuid.UUID `json:"user_id"`
		DisplayName string    `json:"display_name"`
		Score       float64   `json:"score"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, other, data[0].UserID)
	assert.Equal(t, "Sam", data[0].DisplayName)
	assert.InDelta(t, 4.0, data[0].Score, 1e-9)

	status, _ = do(t, app, fiber.MethodGet, "/matches", "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, env = do(t, app, fiber.MethodGet, "/matches?scheme=roommate&limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid limit", env.Message)

	status, _ = do(t, app, fiber.MethodPost, "/matches/"+other.String()+"/dismiss?scheme=roommate", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, other, stub.dismissed)

	status, _ = do(t, app, fiber.MethodPost, "/matches/not-a-uuid/dismiss?scheme=roommate", "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, env = do(t, app, fiber.MethodPost, "/matches/"+other.String()+"/dismiss?scheme=dating", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unknown scheme", env.Message)
}

func TestRecommendationHandlerWithoutUser(t *testing.T) {
	app := newApp(uuid.Nil)
	NewRecommendationHandler(&stubRecommendations{}).RegisterRoutes(app)

	status, _ := do(t, app, fiber.MethodGet, "/matches?scheme=roommate", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

type stubPriorities struct {
	current matching.Priorities
}

func (s *stubPriorities) Get(_ context.Context, _ uuid.UUID, scheme string) (matching.Priorities, error) {
	if scheme != matching.SchemeRoommate {
		return nil, matching.ErrSchemeNotFound
	}
	return s.current, nil
}

func (s *stubPriorities) Toggle(_ context.Context, _ uuid.UUID, _ string, field string) (matching.Priorities, error) {
	if field == "height" {
		return nil, matching.ErrUnknownField
	}
	s.current = matching.TogglePriority(s.current, field)
	return s.current, nil
}

func TestPriorityHandler(t *testing.T) {
	stub := &stubPriorities{}
	app := newApp(uuid.New())
	NewPriorityHandler(stub).RegisterRoutes(app)

	status, env := do(t, app, fiber.MethodGet, "/priorities/roommate", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"scheme":"roommate","fields":[],"max":3}`, string(env.Data))

	status, env = do(t, app, fiber.MethodPost, "/priorities/roommate/budget", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"scheme":"roommate","fields":["budget"],"max":3}`, string(env.Data))

	status, env = do(t, app, fiber.MethodPost, "/priorities/roommate/height", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unknown field", env.Message)

	status, _ = do(t, app, fiber.MethodGet, "/priorities/dating", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

type stubProfiles struct {
	stored map[string]repository.MatchProfile
}

func (s *stubProfiles) Get(_ context.Context, _ uuid.UUID, scheme string) (repository.MatchProfile, error) {
	p, ok := s.stored[scheme]
	if !ok {
		return repository.MatchProfile{}, usecase.ErrProfileNotFound
	}
	return p, nil
}

func (s *stubProfiles) Upsert(_ context.Context, userID uuid.UUID, scheme string, in usecase.ProfileInput) (repository.MatchProfile, error) {
	for k := range in.Attributes {
		if k == "height" {
			return repository.MatchProfile{}, errors.Join(usecase.ErrInvalidInput, errors.New("height"))
		}
	}
	p := repository.MatchProfile{UserID: userID, Scheme: scheme, DisplayName: in.DisplayName, Attributes: in.Attributes}
	s.stored[scheme] = p
	return p, nil
}

func TestProfileHandler(t *testing.T) {
	userID := uuid.New()
	app := newApp(userID)
	NewProfileHandler(&stubProfiles{stored: map[string]repository.MatchProfile{}}).RegisterRoutes(app)

	status, env := do(t, app, fiber.MethodGet, "/profiles/roommate", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Profile not found", env.Message)

	status, env = do(t, app, fiber.MethodPut, "/profiles/roommate", `{"display_name":"Ana","attributes":{"city":"Leeds","budget":[400,600]}}`)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		UserID      uuid.UUID                 `json:"user_id"`
		DisplayName string                    `json:"display_name"`
		Attributes  map[string]matching.Value `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, userID, data.UserID)
	assert.Equal(t, "Ana", data.DisplayName)
	assert.Equal(t, matching.Range(400, 600), data.Attributes["budget"])

	status, _ = do(t, app, fiber.MethodGet, "/profiles/roommate", "")
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, app, fiber.MethodPut, "/profiles/roommate", `{"attributes":{"height":180}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid input", env.Message)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	app := newApp(uuid.Nil)
	NewHealthHandler(map[string]Pinger{
		"database": nil,
		"cache":    pingFunc(func(context.Context) error { return nil }),
	}).RegisterRoutes(app)

	status, env := do(t, app, fiber.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","checks":{"cache":"up","database":"disabled"}}`, string(env.Data))

	down := newApp(uuid.Nil)
	NewHealthHandler(map[string]Pinger{
		"cache": pingFunc(func(context.Context) error { return errors.New("refused") }),
	}).RegisterRoutes(down)

	_, env = do(t, down, fiber.MethodGet, "/health", "")
	assert.JSONEq(t, `{"status":"degraded","checks":{"cache":"down"}}`, string(env.Data))
}
