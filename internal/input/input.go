// Package input converts the six text fields a user enters into
// PricingInputs. It is the boundary where non-numeric text is rejected.
package input

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"stock-calculator/internal/pricing"
	"stock-calculator/internal/types"
)

// Fields holds the raw text of each input as entered by the user.
type Fields struct {
	CurrentPrice      string
	NumShares         string
	DesiredProfitPct  string
	DesiredLossPct    string
	BrokerageConstant string
	BrokeragePct      string
}

// Separators are only accepted between whole groups of three digits.
var grouped = regexp.MustCompile(`^[+-]?\d{1,3}([,_]\d{3})+(\.\d*)?$`)

type fieldKind int

const (
	kindMoney fieldKind = iota
	kindCount
	kindPercent
)

// Parse converts every field or fails on the first one that is not a finite
// number, naming it in the returned *pricing.ValidationError.
func Parse(f Fields) (types.PricingInputs, error) {
	var in types.PricingInputs

	targets := []struct {
		name  string
		label string
		raw   string
		kind  fieldKind
		dst   *float64
	}{
		{"current_price", "Current Price", f.CurrentPrice, kindMoney, &in.CurrentPrice},
		{"num_shares", "Number of Shares", f.NumShares, kindCount, &in.NumShares},
		{"desired_profit_pct", "Profit %", f.DesiredProfitPct, kindPercent, &in.DesiredProfitPct},
		{"desired_loss_pct", "Loss %", f.DesiredLossPct, kindPercent, &in.DesiredLossPct},
		{"brokerage_constant", "Brokerage Constant", f.BrokerageConstant, kindMoney, &in.BrokerageConstant},
		{"brokerage_pct", "Brokerage Percentage", f.BrokeragePct, kindPercent, &in.BrokeragePct},
	}

	for _, t := range targets {
		v, ok := parseNumber(t.raw, t.kind)
		if !ok {
			return types.PricingInputs{}, pricing.NewValidationError(
				pricing.ReasonInvalidNumericInput, t.name,
				"Invalid numeric value for "+t.label+".")
		}
		*t.dst = v
	}
	return in, nil
}

func parseNumber(raw string, kind fieldKind) (float64, bool) {
	s := strings.TrimSpace(raw)
	switch kind {
	case kindMoney:
		s = strings.TrimPrefix(s, "$")
		s = strings.TrimPrefix(s, "₹")
	case kindPercent:
		s = strings.TrimSuffix(s, "%")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.ContainsAny(s, ",_") {
		if !grouped.MatchString(s) {
			return 0, false
		}
		s = strings.NewReplacer(",", "", "_", "").Replace(s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
