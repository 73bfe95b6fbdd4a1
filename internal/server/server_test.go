package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"stock-calculator/internal/logger"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/types"
)

type failingSolver struct{ err error }

func (f failingSolver) Solve(context.Context, types.PricingInputs) (*types.PricingResult, error) {
	return nil, f.err
}

type fixedSolver struct{ res types.PricingResult }

func (f fixedSolver) Solve(context.Context, types.PricingInputs) (*types.PricingResult, error) {
	return &f.res, nil
}

type panickingSolver struct{}

func (panickingSolver) Solve(context.Context, types.PricingInputs) (*types.PricingResult, error) {
	panic("solver exploded")
}

const validBody = `{"current_price":100,"num_shares":10,"desired_profit_pct":20,"desired_loss_pct":10,"brokerage_constant":20,"brokerage_pct":0.5}`

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorDetail {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(pricing.NewSolver()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestQuoteSuccess(t *testing.T) {
	rec := post(t, NewRouter(pricing.NewSolver()), validBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got types.PricingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1000.0, got.TotalInvested)
	assert.InDelta(t, 200, got.TotalProfit, 1e-9)
	assert.InDelta(t, -100, got.TotalLoss, 1e-9)
	assert.Equal(t, types.RegimePercent, got.Breakdown.BuyRegime)
}

func TestQuoteInvalidJSON(t *testing.T) {
	h := NewRouter(pricing.NewSolver())

	for name, body := range map[string]string{
		"malformed":     `{"current_price":`,
		"wrong type":    `{"current_price":"100"}`,
		"unknown field": `{"current_price":100,"ticker":"INFY"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, types.ErrCodeInvalidJSON, decodeError(t, rec).Code)
		})
	}
}

func TestQuoteValidationError(t *testing.T) {
	body := strings.Replace(validBody, `"current_price":100`, `"current_price":0`, 1)
	req := httptest.NewRequest(http.MethodPost, "/v1/quote", strings.NewReader(body))
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	NewRouter(pricing.NewSolver()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, types.ErrCodeValidation, detail.Code)
	assert.Equal(t, string(pricing.ReasonNonPositivePrice), detail.Reason)
	assert.Equal(t, "current_price", detail.Field)
	assert.Equal(t, "Current price must be greater than zero.", detail.Message)
	assert.Equal(t, "req-123", detail.RequestID)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestQuoteInternalError(t *testing.T) {
	rec := post(t, NewRouter(failingSolver{err: errors.New("backend down")}), validBody)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeError(t, rec)
	assert.Equal(t, types.ErrCodeInternalServer, detail.Code)
	assert.NotContains(t, detail.Message, "backend down")
}

func TestQuoteEncodeFailureLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.SetCore(core)
	t.Cleanup(func() { logger.SetCore(zapcore.NewNopCore()) })

	rec := post(t, NewRouter(fixedSolver{res: types.PricingResult{TotalInvested: math.NaN()}}), validBody)
	assert.Equal(t, http.StatusOK, rec.Code)

	failed := logs.FilterMessage("Failed to encode response")
	require.Equal(t, 1, failed.Len())
	fields := failed.All()[0].ContextMap()
	assert.Contains(t, fields["error"], "NaN")
	assert.NotEmpty(t, fields["request_id"])
}

func TestQuotePanicRecovered(t *testing.T) {
	rec := post(t, NewRouter(panickingSolver{}), validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRequestIDEmptyWithoutMiddleware(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, "127.0.0.1:0", pricing.NewSolver()) }()

	cancel()
	assert.NoError(t, <-done)
}
