package domain

import (
	"errors"
	"fmt"
)

// The simulator distinguishes three fault classes. Strategy and process
// faults are recoverable: the day is recorded and the run continues.
// Collaborator faults terminate the run in the aborted state.

// StrategyFault is a violation of the quoting contract by a strategy:
// a crossed quote, a non-positive price, or a declined day.
type StrategyFault struct {
	// Reason is a short machine-readable tag, e.g. "crossed_quote".
	Reason string
	// Detail carries the offending values for the day's record.
	Detail string
}

// NewStrategyFault creates a strategy fault with the given reason and detail.
func NewStrategyFault(reason, detail string) *StrategyFault {
	return &StrategyFault{Reason: reason, Detail: detail}
}

func (f *StrategyFault) Error() string {
	if f.Detail == "" {
		return "strategy fault: " + f.Reason
	}
	return fmt.Sprintf("strategy fault: %s (%s)", f.Reason, f.Detail)
}

// IsStrategyFault reports whether err is (or wraps) a strategy fault.
func IsStrategyFault(err error) bool {
	var f *StrategyFault
	return errors.As(err, &f)
}

// AsStrategyFault unwraps err into a strategy fault, or nil.
func AsStrategyFault(err error) *StrategyFault {
	var f *StrategyFault
	if errors.As(err, &f) {
		return f
	}
	return nil
}

// ProcessFault is an invalid state produced by the price process. It is
// corrected deterministically (clamped) and logged as a warning, never
// surfaced as a run failure.
type ProcessFault struct {
	Reason string
	Detail string
}

func (f *ProcessFault) Error() string {
	return fmt.Sprintf("price process fault: %s (%s)", f.Reason, f.Detail)
}

// CollaboratorFault is an unexpected failure outside the quoting contract,
// e.g. a panicking strategy. It terminates the run early in the aborted
// state; the partial daily history is still reported.
type CollaboratorFault struct {
	// Stage names the collaborator that failed, e.g. "strategy".
	Stage string
	Err   error
}

// NewCollaboratorFault wraps an unrecoverable collaborator failure.
func NewCollaboratorFault(stage string, err error) *CollaboratorFault {
	return &CollaboratorFault{Stage: stage, Err: err}
}

func (f *CollaboratorFault) Error() string {
	return fmt.Sprintf("collaborator fault in %s: %v", f.Stage, f.Err)
}

func (f *CollaboratorFault) Unwrap() error {
	return f.Err
}

// IsCollaboratorFault reports whether err is (or wraps) a collaborator fault.
func IsCollaboratorFault(err error) bool {
	var f *CollaboratorFault
	return errors.As(err, &f)
}
