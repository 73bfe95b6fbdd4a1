package pricing

import (
	"context"

	"stock-calculator/internal/interfaces"
	"stock-calculator/internal/types"
)

type solver struct{}

var _ interfaces.Solver = (*solver)(nil)

// NewSolver returns the in-process Solver backed by Solve.
func NewSolver() interfaces.Solver {
	return &solver{}
}

func (s *solver) Solve(ctx context.Context, in types.PricingInputs) (*types.PricingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := Solve(in)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
