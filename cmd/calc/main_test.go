package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-calculator/internal/logger"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/server"
	"stock-calculator/internal/types"
)

const testConfig = `
log:
  level: ERROR
output:
  color: false
default_plan: discount
plans:
  discount:
    flat: 20
    pct: 0.5
  zero:
    flat: 0
    pct: 0
`

func run(t *testing.T, config string, args ...string) (string, string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", path}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQuoteTextWithFlags(t *testing.T) {
	out, _, err := run(t, "output:\n  color: false\n",
		"quote", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10", "--flat", "20", "--pct", "0.5")
	require.NoError(t, err)

	assert.Contains(t, out, "Total Investment: $1000.00")
	assert.Contains(t, out, "Price per share to sell for profit: $121.11")
	assert.Contains(t, out, "Total Profit: $200.00")
	assert.Contains(t, out, "Price per share to sell for loss: $90.95")
	assert.Contains(t, out, "Total Loss: $-100.00")
	assert.NotContains(t, out, "Breakdown")
}

func TestQuoteUsesDefaultPlan(t *testing.T) {
	out, _, err := run(t, testConfig,
		"quote", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10", "--format", "json")
	require.NoError(t, err)

	var got types.PricingResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want, err := pricing.Solve(types.PricingInputs{
		CurrentPrice: 100, NumShares: 10, DesiredProfitPct: 20, DesiredLossPct: 10,
		BrokerageConstant: 20, BrokeragePct: 0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestQuoteFlagOverridesPlan(t *testing.T) {
	out, _, err := run(t, testConfig,
		"quote", "--plan", "zero", "--pct", "0.5", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10", "--format", "json")
	require.NoError(t, err)

	var got types.PricingResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Breakdown.Threshold)
	assert.Equal(t, 0.0, *got.Breakdown.Threshold)
	assert.Equal(t, types.RegimeFlat, got.Breakdown.BuyRegime)
	assert.Equal(t, 0.0, got.Breakdown.BuyFee)
	assert.InDelta(t, 120, got.SellPriceForProfit, 1e-9)
}

func TestQuoteVerboseShowsBreakdown(t *testing.T) {
	out, _, err := run(t, testConfig,
		"-v", "quote", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Breakdown")
	assert.Contains(t, out, "Fee threshold: $4000.00")
}

func TestQuoteInputErrorExitsWithTwo(t *testing.T) {
	out, errOut, err := run(t, testConfig,
		"quote", "--price", "abc", "--shares", "10", "--profit", "20", "--loss", "10")

	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Input Error: Invalid numeric value for Current Price.")
}

func TestQuoteValidationErrorExitsWithTwo(t *testing.T) {
	_, errOut, err := run(t, testConfig,
		"quote", "--price", "0", "--shares", "10", "--profit", "20", "--loss", "10")

	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
	assert.ErrorIs(t, err, pricing.ErrNonPositivePrice)
	assert.Contains(t, errOut, "Input Error: Current price must be greater than zero.")
}

func TestQuoteUnknownPlan(t *testing.T) {
	_, _, err := run(t, testConfig,
		"quote", "--plan", "ghost", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fee plan 'ghost'")
}

func TestQuoteRejectsBadFormat(t *testing.T) {
	_, _, err := run(t, testConfig,
		"quote", "--format", "xml", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --format")
}

func TestQuoteRemote(t *testing.T) {
	srv := httptest.NewServer(server.NewRouter(pricing.NewSolver()))
	defer srv.Close()

	out, _, err := run(t, testConfig,
		"quote", "--remote", srv.URL, "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Profit: $200.00")

	_, errOut, err := run(t, testConfig,
		"quote", "--remote", srv.URL, "--pct", "150", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10")
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, errOut, "Input Error: Brokerage percentage must be below 100%.")
}

func TestLogEnvOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "DEBUG")

	_, _, err := run(t, testConfig,
		"quote", "--price", "100", "--shares", "10", "--profit", "20", "--loss", "10")
	require.NoError(t, err)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Quote computed"`)
	assert.Contains(t, string(data), `"msg":"Operation completed"`)
	assert.Contains(t, string(data), `"operation":"calc.quote"`)
	assert.Contains(t, string(data), `"profit_regime":"PERCENT"`)
}

func TestQuoteRejectionEndsOperation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.log")
	t.Setenv("LOG_FILE", path)
	t.Setenv("LOG_LEVEL", "DEBUG")

	_, _, err := run(t, testConfig,
		"quote", "--price", "0", "--shares", "10", "--profit", "20", "--loss", "10")
	require.Error(t, err)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rejected":"non_positive_price"`)
	assert.NotContains(t, string(data), `"msg":"Operation failed"`)
}

func TestPlans(t *testing.T) {
	out, _, err := run(t, testConfig, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "PLAN")
	assert.Regexp(t, `discount\s+\$20\.00\s+0\.5%\s+\*`, out)
	assert.Regexp(t, `zero\s+\$0\.00\s+0%`, out)
}

func TestPlansEmpty(t *testing.T) {
	out, _, err := run(t, "", "plans")
	require.NoError(t, err)
	assert.Equal(t, "No fee plans configured.\n", out)
}

func TestInvalidConfigFails(t *testing.T) {
	_, _, err := run(t, "output:\n  format: xml\n", "plans")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
