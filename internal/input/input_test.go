package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-calculator/internal/pricing"
	"stock-calculator/internal/types"
)

func validFields() Fields {
	return Fields{
		CurrentPrice:      "100",
		NumShares:         "10",
		DesiredProfitPct:  "20",
		DesiredLossPct:    "10",
		BrokerageConstant: "20",
		BrokeragePct:      "0.5",
	}
}

func TestParseValid(t *testing.T) {
	in, err := Parse(validFields())
	require.NoError(t, err)
	assert.Equal(t, types.PricingInputs{
		CurrentPrice:      100,
		NumShares:         10,
		DesiredProfitPct:  20,
		DesiredLossPct:    10,
		BrokerageConstant: 20,
		BrokeragePct:      0.5,
	}, in)
}

func TestParseDecorations(t *testing.T) {
	f := Fields{
		CurrentPrice:      "  $1,250.75 ",
		NumShares:         "1_000",
		DesiredProfitPct:  "12.5%",
		DesiredLossPct:    " 7 % ",
		BrokerageConstant: "₹20",
		BrokeragePct:      "0.03%",
	}

	in, err := Parse(f)
	require.NoError(t, err)
	assert.Equal(t, 1250.75, in.CurrentPrice)
	assert.Equal(t, 1000.0, in.NumShares)
	assert.Equal(t, 12.5, in.DesiredProfitPct)
	assert.Equal(t, 7.0, in.DesiredLossPct)
	assert.Equal(t, 20.0, in.BrokerageConstant)
	assert.Equal(t, 0.03, in.BrokeragePct)
}

func TestParseThousandsGroups(t *testing.T) {
	for raw, want := range map[string]float64{
		"1,234,567.5": 1234567.5,
		"12,500":      12500,
		"-1,000":      -1000,
		"100_000.":    100000,
	} {
		t.Run(raw, func(t *testing.T) {
			f := validFields()
			f.CurrentPrice = raw
			in, err := Parse(f)
			require.NoError(t, err)
			assert.Equal(t, want, in.CurrentPrice)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		field  string
	}{
		{"empty price", func(f *Fields) { f.CurrentPrice = "" }, "current_price"},
		{"blank shares", func(f *Fields) { f.NumShares = "   " }, "num_shares"},
		{"text profit", func(f *Fields) { f.DesiredProfitPct = "twenty" }, "desired_profit_pct"},
		{"NaN loss", func(f *Fields) { f.DesiredLossPct = "NaN" }, "desired_loss_pct"},
		{"infinite constant", func(f *Fields) { f.BrokerageConstant = "+Inf" }, "brokerage_constant"},
		{"percent sign on money", func(f *Fields) { f.BrokerageConstant = "20%" }, "brokerage_constant"},
		{"currency on percentage", func(f *Fields) { f.BrokeragePct = "$0.5" }, "brokerage_pct"},
		{"decimal comma price", func(f *Fields) { f.CurrentPrice = "12,5" }, "current_price"},
		{"decimal comma percentage", func(f *Fields) { f.BrokeragePct = "0,5" }, "brokerage_pct"},
		{"short trailing group", func(f *Fields) { f.CurrentPrice = "1,00" }, "current_price"},
		{"leading separator", func(f *Fields) { f.NumShares = ",100" }, "num_shares"},
		{"oversized leading group", func(f *Fields) { f.CurrentPrice = "1234,567" }, "current_price"},
		{"separator after decimal point", func(f *Fields) { f.CurrentPrice = "1.000,5" }, "current_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)

			_, err := Parse(f)
			require.ErrorIs(t, err, pricing.ErrInvalidNumericInput)

			ve, ok := pricing.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestParseReportsFirstBadField(t *testing.T) {
	f := validFields()
	f.NumShares = "x"
	f.BrokeragePct = "y"

	_, err := Parse(f)
	ve, ok := pricing.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "num_shares", ve.Field)
}

func TestParsedNegativePercentageFailsInSolver(t *testing.T) {
	f := validFields()
	f.BrokeragePct = "-1"

	in, err := Parse(f)
	require.NoError(t, err)

	_, err = pricing.Solve(in)
	assert.ErrorIs(t, err, pricing.ErrNegativeBrokeragePercentage)
}
