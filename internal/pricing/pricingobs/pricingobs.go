package pricingobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stock-calculator/internal/interfaces"
	"stock-calculator/internal/logger"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/trace"
	"stock-calculator/internal/types"
)

type observableSolver struct {
	solver interfaces.Solver
}

var _ interfaces.Solver = (*observableSolver)(nil)

func Wrap(s interfaces.Solver) interfaces.Solver {
	return &observableSolver{
		solver: s,
	}
}

func (o *observableSolver) Solve(ctx context.Context, in types.PricingInputs) (*types.PricingResult, error) {
	ctx, span := trace.StartSpan(ctx, "pricing.Solve")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("current_price", in.CurrentPrice),
		attribute.Float64("num_shares", in.NumShares),
		attribute.Float64("brokerage_constant", in.BrokerageConstant),
		attribute.Float64("brokerage_pct", in.BrokeragePct),
	)

	start := time.Now()

	if logger.IsDebugEnabled() {
		logger.Debug(ctx, "Solving quote",
			"current_price", in.CurrentPrice,
			"num_shares", in.NumShares,
			"desired_profit_pct", in.DesiredProfitPct,
			"desired_loss_pct", in.DesiredLossPct,
			"brokerage_constant", in.BrokerageConstant,
			"brokerage_pct", in.BrokeragePct,
		)
	}

	result, err := o.solver.Solve(ctx, in)
	if err != nil {
		if ve, ok := pricing.AsValidationError(err); ok {
			span.SetStatus(codes.Error, string(ve.Reason))
			logger.WarnSkip(ctx, 1, "Quote rejected",
				"reason", string(ve.Reason),
				"field", ve.Field,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil, err
		}
		logger.ErrorWithErrSkip(ctx, 1, "Quote failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	b := result.Breakdown
	logger.Quote(ctx, in.CurrentPrice, result.SellPriceForProfit, result.SellPriceForLoss,
		string(b.Profit.Regime), string(b.Loss.Regime),
		"buy_regime", string(b.BuyRegime),
		"buy_fee", b.BuyFee,
		"total_invested", result.TotalInvested,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
