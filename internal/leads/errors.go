package leads

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrStoreNotConfigured is returned when no writable store is available.
	// Fatal for the session: the caller should direct the visitor to an
	// alternate contact channel.
	ErrStoreNotConfigured = errors.New("store is not configured for writes")

	// ErrSubmitFailed is returned when the store rejected the insert.
	// Recoverable: the draft is preserved and a retry is permitted.
	ErrSubmitFailed = errors.New("application could not be saved")

	// ErrSubmitInFlight is returned when a submission is already in
	// progress on this service instance.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrInvalidStatus is returned for an unknown status value.
	ErrInvalidStatus = errors.New("invalid application status")
)

// FieldErrors maps form field names to human-readable validation messages.
// An empty map means the draft is valid.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation passed"
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
