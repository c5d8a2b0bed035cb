/*
errors.go - Centralized error types for the payroll engine

ERROR CATEGORIES:
 1. Validation errors - malformed input that fails a single request
 2. Recoverable conditions - unknown policy, missing rate setting; these
    are logged and degraded, never returned from a report
 3. Lookup errors - used by the persistence and API layers

SEE ALSO:
  - report.go: Per-row isolation turns row errors into degraded results
  - api/handlers.go: Maps these errors onto HTTP status codes
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidMonthFormat is returned when a yearMonth is not YYYY-MM.
	ErrInvalidMonthFormat = errors.New("invalid month format")

	// ErrInvalidDate is returned when a date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNegativeHours is returned when a work log carries negative hours.
	ErrNegativeHours = errors.New("negative hours")

	// ErrUnknownPolicy marks an employee whose policy reference does not resolve.
	// Recovered locally as the all-false policy.
	ErrUnknownPolicy = errors.New("unknown policy reference")

	// ErrMissingSetting marks a rate setting that is absent or unparseable.
	// Recovered locally as zero.
	ErrMissingSetting = errors.New("missing rate setting")

	ErrEmployeeNotFound = errors.New("employee not found")
	ErrPolicyNotFound   = errors.New("policy not found")
	ErrSnapshotNotFound = errors.New("report snapshot not found")

	// ErrDuplicateHoliday is returned when a custom holiday date already exists.
	ErrDuplicateHoliday = errors.New("holiday already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes input that failed validation.
type ValidationError struct {
	Code  string // e.g. "invalid_month_format"
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Code, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RowError is the failure of a single employee's computation inside a report.
type RowError struct {
	EmployeeID EmployeeID
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrInvalidMonthFormat) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNegativeHours)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrSnapshotNotFound)
}
