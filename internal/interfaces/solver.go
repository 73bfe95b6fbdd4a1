package interfaces

import (
	"context"

	"stock-calculator/internal/types"
)

// Solver quotes exit prices for a position.
type Solver interface {
	Solve(ctx context.Context, in types.PricingInputs) (*types.PricingResult, error)
}
