/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Core operations (merge, totals, ordering) are total functions over
  validated input and never fail; only the boundary operations can:
  sanitizing raw input, workflow-level record validation, and the
  network calls made by the remote gateway.

ERROR CATEGORIES:
  1. Document errors  - Import/sync payload is not usable
  2. Record errors    - Workflow-level validation and lookup failures
  3. Transport errors - Remote sync call failures

USAGE:
  Callers classify with errors.Is or the helpers below:

    if errors.Is(err, timesheet.ErrMalformedDocument) { ... }
    if timesheet.IsNotFound(err) { ... }

SEE ALSO:
  - sanitize.go: Produces ErrMalformedDocument
  - repository.go: Produces record errors
  - remote/gateway.go: Produces TransportError
*/
package timesheet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedDocument is returned when an import/sync payload is not a
	// JSON object. Fatal to that operation only; the repository is unchanged.
	ErrMalformedDocument = errors.New("malformed document: not a JSON object")

	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrSheetNotFound is returned when a referenced sheet doesn't exist.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrEntryNotFound is returned when a referenced entry doesn't exist.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidPeriod is returned when a sheet period is malformed
	// (bad date shape, or end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidClockTime is returned when a workflow receives an
	// unparseable HH:MM clock time.
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidDate is returned when a workflow receives a date that is
	// not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrWorkDateOutsidePeriod is returned when an entry's work date falls
	// outside the owning sheet's period at creation/edit time.
	ErrWorkDateOutsidePeriod = errors.New("work date outside sheet period")

	// ErrTransportFailure is returned when a sync call fails: non-2xx
	// status or a network error. Local state is unchanged and lastSyncAt
	// is not updated.
	ErrTransportFailure = errors.New("transport failure")

	// ErrSyncInFlight is returned when a sync is requested while another
	// one is still outstanding. Overlapping syncs are rejected, not queued.
	ErrSyncInFlight = errors.New("sync already in flight")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// TransportError provides details about a failed sync call.
type TransportError struct {
	URL    string
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport failure: %s returned status %d: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("transport failure: %s: %s", e.URL, e.Body)
}

func (e *TransportError) Unwrap() error {
	return ErrTransportFailure
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMalformedDocument) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrWorkDateOutsidePeriod)
}
