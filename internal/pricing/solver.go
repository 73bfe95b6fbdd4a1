package pricing

import (
	"math"

	"stock-calculator/internal/types"
)

// Solve computes the exit prices that realise the desired net profit and net
// loss on a position after brokerage on both the buy and the sell side.
//
// The broker charges either a flat fee or a percentage of trade value. On the
// buy side the regime is chosen by comparing the price against the point where
// both fees are equal. On the sell side the target price is solved under each
// regime and the lower of the two is quoted, independently for profit and loss.
//
// Solve is pure and safe for concurrent use.
func Solve(in types.PricingInputs) (types.PricingResult, error) {
	if err := validate(in); err != nil {
		return types.PricingResult{}, err
	}

	threshold, buyFee, buyRegime := buySideFee(in)

	profit, profitPrice := quoteSide(in, buyFee, 100+in.DesiredProfitPct)
	loss, lossPrice := quoteSide(in, buyFee, 100-in.DesiredLossPct)

	res := types.PricingResult{
		TotalInvested:      in.CurrentPrice * in.NumShares,
		SellPriceForProfit: profitPrice,
		TotalProfit:        in.NumShares * profit.PerShare,
		SellPriceForLoss:   lossPrice,
		TotalLoss:          in.NumShares * loss.PerShare,
		Breakdown: types.QuoteBreakdown{
			Threshold: threshold,
			BuyFee:    buyFee,
			BuyRegime: buyRegime,
			Profit:    profit,
			Loss:      loss,
		},
	}

	for _, v := range []float64{res.TotalInvested, res.SellPriceForProfit, res.TotalProfit, res.SellPriceForLoss, res.TotalLoss} {
		if !finite(v) {
			return types.PricingResult{}, NewValidationError(ReasonResultOutOfRange, "",
				"Inputs are too large to produce a quote.")
		}
	}

	return res, nil
}

// buySideFee returns the fee crossing point and the fee charged on purchase.
// With a zero percentage rate there is no crossing and the percentage fee,
// which is zero, is always the cheaper one.
func buySideFee(in types.PricingInputs) (*float64, float64, types.Regime) {
	if in.BrokeragePct == 0 {
		return nil, 0, types.RegimePercent
	}

	threshold := (in.BrokerageConstant * 100) / in.BrokeragePct
	if in.CurrentPrice > threshold {
		return &threshold, in.BrokerageConstant, types.RegimeFlat
	}
	return &threshold, (in.BrokeragePct * in.CurrentPrice) / 100, types.RegimePercent
}

// quoteSide solves the sell price for a target expressed as a percentage of
// the current price (100+profit or 100-loss) under both fee regimes and keeps
// the lower candidate.
func quoteSide(in types.PricingInputs, buyFee, targetPct float64) (types.SideQuote, float64) {
	denom := 100 - in.BrokeragePct

	q := types.SideQuote{
		PercentCandidate: (targetPct/denom)*in.CurrentPrice + (100*buyFee)/denom,
		FlatCandidate:    (targetPct/100)*in.CurrentPrice + buyFee + in.BrokerageConstant,
	}

	var price float64
	if q.PercentCandidate > q.FlatCandidate {
		q.Regime = types.RegimeFlat
		q.SellFee = in.BrokerageConstant
		price = q.FlatCandidate
	} else {
		q.Regime = types.RegimePercent
		q.SellFee = (in.BrokeragePct / 100) * q.PercentCandidate
		price = q.PercentCandidate
	}

	q.PerShare = price - in.CurrentPrice - buyFee - q.SellFee
	return q, price
}

func validate(in types.PricingInputs) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"current_price", in.CurrentPrice},
		{"num_shares", in.NumShares},
		{"desired_profit_pct", in.DesiredProfitPct},
		{"desired_loss_pct", in.DesiredLossPct},
		{"brokerage_constant", in.BrokerageConstant},
		{"brokerage_pct", in.BrokeragePct},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return NewValidationError(ReasonInvalidNumericInput, f.name,
				"Please enter valid numeric values for all fields.")
		}
	}

	switch {
	case in.BrokeragePct < 0:
		return NewValidationError(ReasonNegativeBrokeragePercentage, "brokerage_pct",
			"Brokerage percentage cannot be negative.")
	case in.BrokeragePct >= 100:
		return NewValidationError(ReasonBrokeragePercentageOutOfRange, "brokerage_pct",
			"Brokerage percentage must be below 100%.")
	case in.BrokerageConstant < 0:
		return NewValidationError(ReasonNegativeBrokerageConstant, "brokerage_constant",
			"Brokerage constant cannot be negative.")
	case in.CurrentPrice <= 0:
		return NewValidationError(ReasonNonPositivePrice, "current_price",
			"Current price must be greater than zero.")
	case in.NumShares < 0:
		return NewValidationError(ReasonNegativeShareCount, "num_shares",
			"Number of shares cannot be negative.")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
