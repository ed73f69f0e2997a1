package game

import (
	"errors"
	"fmt"
)

// RuleError reports why an action was rejected by the reducer.
//
// Rejections are never fatal: Reduce treats them as no-ops and returns the
// input state unchanged. Apply surfaces the RuleError so the presentation
// layer can explain the rejection (or disable the control up front).
type RuleError struct {
	// Code identifies the rejection category.
	Code RuleErrorCode

	// Message is a human-readable description.
	Message string

	// Field identifies the affected field, when relevant.
	Field string

	// Needed and Available carry budget amounts for
	// INSUFFICIENT_FUNDS rejections.
	Needed    float64
	Available float64
}

// RuleErrorCode categorizes action rejections.
type RuleErrorCode string

const (
	// ErrCodeUnknownField indicates the action named a field that does
	// not exist in the dataset.
	ErrCodeUnknownField RuleErrorCode = "UNKNOWN_FIELD"

	// ErrCodeFieldNotActive indicates a phase-out targeting an already
	// closed or transitioning field.
	ErrCodeFieldNotActive RuleErrorCode = "FIELD_NOT_ACTIVE"

	// ErrCodeInsufficientFunds indicates the budget cannot cover the
	// action at call time.
	ErrCodeInsufficientFunds RuleErrorCode = "INSUFFICIENT_FUNDS"

	// ErrCodeInvalidArgument indicates an enum or payload value outside
	// the allowed set.
	ErrCodeInvalidArgument RuleErrorCode = "INVALID_ARGUMENT"

	// ErrCodeUnknownAction indicates an action type the reducer does not
	// recognize.
	ErrCodeUnknownAction RuleErrorCode = "UNKNOWN_ACTION"

	// ErrCodeNoPendingEvent indicates event resolution with nothing to
	// resolve.
	ErrCodeNoPendingEvent RuleErrorCode = "NO_PENDING_EVENT"
)

// Error implements the error interface.
func (e *RuleError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInsufficientFunds returns true if the error is a funds rejection.
// Uses errors.As to handle wrapped errors.
func IsInsufficientFunds(err error) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInsufficientFunds
	}
	return false
}

// IsUnknownField returns true if the error names a missing field.
func IsUnknownField(err error) bool {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code == ErrCodeUnknownField
	}
	return false
}

// NewFundsError creates a RuleError for an unaffordable action.
func NewFundsError(field string, needed, available float64) *RuleError {
	return &RuleError{
		Code:      ErrCodeInsufficientFunds,
		Message:   fmt.Sprintf("action costs %.0f but budget is %.0f", needed, available),
		Field:     field,
		Needed:    needed,
		Available: available,
	}
}

// NewUnknownFieldError creates a RuleError for a missing field name.
func NewUnknownFieldError(name string) *RuleError {
	return &RuleError{
		Code:    ErrCodeUnknownField,
		Message: "no such field in the dataset",
		Field:   name,
	}
}
