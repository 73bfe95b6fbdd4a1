package pricing

import (
	"errors"
	"fmt"
)

// Reason classifies why a quote could not be computed.
type Reason string

const (
	ReasonInvalidNumericInput           Reason = "invalid_numeric_input"
	ReasonNegativeBrokeragePercentage   Reason = "negative_brokerage_percentage"
	ReasonBrokeragePercentageOutOfRange Reason = "brokerage_percentage_out_of_range"
	ReasonNegativeBrokerageConstant     Reason = "negative_brokerage_constant"
	ReasonNonPositivePrice              Reason = "non_positive_price"
	ReasonNegativeShareCount            Reason = "negative_share_count"
	ReasonResultOutOfRange              Reason = "result_out_of_range"
)

// ValidationError is returned for inputs a quote cannot be computed from.
// Field is set when a single input is at fault.
type ValidationError struct {
	Reason  Reason `json:"reason"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Sentinels for errors.Is. They match any ValidationError with the same reason.
var (
	ErrInvalidNumericInput           = &ValidationError{Reason: ReasonInvalidNumericInput}
	ErrNegativeBrokeragePercentage   = &ValidationError{Reason: ReasonNegativeBrokeragePercentage}
	ErrBrokeragePercentageOutOfRange = &ValidationError{Reason: ReasonBrokeragePercentageOutOfRange}
	ErrNegativeBrokerageConstant     = &ValidationError{Reason: ReasonNegativeBrokerageConstant}
	ErrNonPositivePrice              = &ValidationError{Reason: ReasonNonPositivePrice}
	ErrNegativeShareCount            = &ValidationError{Reason: ReasonNegativeShareCount}
	ErrResultOutOfRange              = &ValidationError{Reason: ReasonResultOutOfRange}
)

func NewValidationError(reason Reason, field, message string) *ValidationError {
	return &ValidationError{Reason: reason, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Reason, e.Field, e.Message)
	}
	if e.Message == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// AsValidationError unwraps err to a *ValidationError if it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
