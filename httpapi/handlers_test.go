package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"mitra-credit/content"
	"mitra-credit/sessions"
	"mitra-credit/shared"
)

type testServer struct {
	handler http.Handler
	metrics *Metrics
}

func newTestServer(t *testing.T, deps RouterDependencies) *testServer {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)

	backend := sessions.NewMemory(time.Hour)
	backend.NewID = func() string { return "S-1" }
	metrics := NewMetrics()

	deps.Backend = backend
	deps.Catalog = catalog
	deps.Metrics = metrics
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testServer{handler: NewRouter(logger, deps), metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})

	rec := s.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, "S-1", resp.Session.SessionID)
	assert.Equal(t, shared.ScreenWelcome, resp.View.Screen)
	require.NotNil(t, resp.View.Onboarding)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = s.do(t, http.MethodPost, "/v1/sessions/S-1/events", shared.Event{Action: shared.ActionSkip})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeSession(t, rec)
	assert.Equal(t, shared.ScreenDashboard, resp.Session.Screen)
	assert.True(t, resp.Session.TabBarVisible)
	require.NotNil(t, resp.View.Dashboard)
	assert.InDelta(t, 15.0, resp.View.Dashboard.UtilizationPct, 1e-9)
	assert.Len(t, resp.View.TabBar, 5)

	rec = s.do(t, http.MethodGet, "/v1/sessions/S-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeSession(t, rec).Session.Events)

	rec = s.do(t, http.MethodDelete, "/v1/sessions/S-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/sessions/S-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeError(t, rec).Error.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.sessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.events.WithLabelValues("skip", "applied")))
}

func TestPatchProfile(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	s.do(t, http.MethodPost, "/v1/sessions", nil)
	for _, ev := range []shared.Event{
		{Action: shared.ActionSkip},
		{Action: shared.ActionNavigate, Target: shared.ScreenLoanApplication},
		{Action: shared.ActionNext},
		{Action: shared.ActionNext},
	} {
		require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/sessions/S-1/events", ev).Code)
	}

	rec := s.do(t, http.MethodPatch, "/v1/sessions/S-1/profile", map[string]any{
		"loanAmount":   300000,
		"tenor":        12,
		"interestRate": 14.0,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeSession(t, rec)
	assert.Equal(t, shared.ScreenLoanOffer, resp.Session.Screen)
	require.NotNil(t, resp.View.Loan)
	assert.InDelta(t, 26936.14, resp.View.Loan.EMI, 0.001)
}

func TestRejectedEvent(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	s.do(t, http.MethodPost, "/v1/sessions", nil)

	rec := s.do(t, http.MethodPost, "/v1/sessions/S-1/events", shared.Event{Action: shared.ActionAccept})
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "NO_SUCH_EDGE", body.Error.Code)
	assert.NotEmpty(t, body.Error.RequestID)

	rec = s.do(t, http.MethodPost, "/v1/sessions/S-1/events", shared.Event{Action: shared.ActionNavigate, Target: "nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sessions/S-1/events", shared.Event{Action: shared.ActionNavigate, Target: shared.ScreenRewardsTier})
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.events.WithLabelValues("accept", "rejected")))
}

func TestRejectedEvent_UnknownActionsShareOneSeries(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	s.do(t, http.MethodPost, "/v1/sessions", nil)

	for _, action := range []shared.Action{"bogus-1", "bogus-2", "drop table"} {
		rec := s.do(t, http.MethodPost, "/v1/sessions/S-1/events", shared.Event{Action: action})
		assert.Equal(t, http.StatusConflict, rec.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.events.WithLabelValues("unknown", "rejected")))
	assert.Equal(t, 1, testutil.CollectAndCount(s.metrics.events))
}

func TestEventValidation(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	s.do(t, http.MethodPost, "/v1/sessions", nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/S-1/events", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/sessions/S-1/events", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Error.Code)
}

func TestContentEndpoint(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	rec := s.do(t, http.MethodGet, "/v1/content", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog content.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Tiers, 4)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	s.do(t, http.MethodPost, "/v1/sessions", nil)

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mitra_sessions_started_total 1")
	assert.Contains(t, rec.Body.String(), `mitra_http_requests_total{method="POST"`)
}

type failingCheck struct{}

func (failingCheck) Check(_ context.Context) error { return errors.New("temporal unreachable") }

func TestHealthz(t *testing.T) {
	s := newTestServer(t, RouterDependencies{})
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	s = newTestServer(t, RouterDependencies{Health: failingCheck{}})
	rec = s.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestTemporalHealthService(t *testing.T) {
	c := &mocks.Client{}
	c.On("CheckHealth", mock.Anything, mock.Anything).Return(&client.CheckHealthResponse{}, nil).Once()
	c.On("CheckHealth", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	check := TemporalHealthService{Client: c}
	assert.NoError(t, check.Check(context.Background()))
	assert.Error(t, check.Check(context.Background()))
	assert.NoError(t, TemporalHealthService{}.Check(context.Background()))
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, RouterDependencies{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.cors))
}

func TestCORS_Credentials(t *testing.T) {
	s := newTestServer(t, RouterDependencies{
		AllowedOrigins:   []string{"http://localhost:3000", "*"},
		AllowCredentials: true,
	})
	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/v1/sessions", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = preflight("http://evil.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://evil.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestMapDomainError_Default(t *testing.T) {
	status, code, _ := mapDomainError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
