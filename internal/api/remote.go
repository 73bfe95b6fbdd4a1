package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"stock-calculator/internal/interfaces"
	"stock-calculator/internal/pricing"
	"stock-calculator/internal/types"
)

// QuotePath is the quote endpoint served by internal/server.
const QuotePath = "/v1/quote"

// RemoteSolver computes quotes on a remote quote service.
type RemoteSolver struct {
	client *Client
	retry  *RetryConfig
}

var _ interfaces.Solver = (*RemoteSolver)(nil)

func NewRemoteSolver(client *Client, retry *RetryConfig) *RemoteSolver {
	return &RemoteSolver{client: client, retry: retry}
}

// Solve posts the inputs to the service. Quotes are deterministic, so failed
// transports are retried; a rejected quote comes back as *pricing.ValidationError.
func (r *RemoteSolver) Solve(ctx context.Context, in types.PricingInputs) (*types.PricingResult, error) {
	req := NewRequest(http.MethodPost, QuotePath).
		WithContext(ctx).
		WithBody(in)

	resp, err := r.client.DoWithRetry(req, r.retry)
	if err != nil {
		if ve := decodeValidationError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("remote quote failed: %w", err)
	}

	var res types.PricingResult
	if err := resp.ParseJSON(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func decodeValidationError(err error) *pricing.ValidationError {
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnprocessableEntity {
		return nil
	}
	var body types.ErrorResponse
	if json.Unmarshal(se.Body, &body) != nil || body.Error.Reason == "" {
		return nil
	}
	return pricing.NewValidationError(pricing.Reason(body.Error.Reason), body.Error.Field, body.Error.Message)
}
