package tariff

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPlan is returned when a plan definition cannot be billed.
	ErrInvalidPlan = errors.New("tariff: invalid plan configuration")
	// ErrEmptySeries is returned when a calculation is requested over zero readings.
	ErrEmptySeries = errors.New("tariff: no billable data")
	// ErrInvalidReading is returned when a series is built from a negative or non-finite reading.
	ErrInvalidReading = errors.New("tariff: invalid reading")
	// ErrNoBills is returned when comparing an empty set of bills.
	ErrNoBills = errors.New("tariff: no bills to compare")
	// ErrDuplicateBill is returned when two bills share a name in a comparison.
	ErrDuplicateBill = errors.New("tariff: duplicate bill name")
)

// PlanError describes why a plan failed validation. It matches ErrInvalidPlan.
type PlanError struct {
	Plan   string
	Reason string
}

func (e *PlanError) Error() string {
	if e.Plan == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidPlan, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidPlan, e.Plan, e.Reason)
}

func (e *PlanError) Unwrap() error {
	return ErrInvalidPlan
}

func invalidPlan(plan, format string, args ...any) error {
	return &PlanError{Plan: plan, Reason: fmt.Sprintf(format, args...)}
}
