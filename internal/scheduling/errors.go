package scheduling

import "errors"

// Domain errors for the booking core. Handlers translate these into the
// response taxonomy; nothing else should leak past the operation boundary.
var (
	// Validation
	ErrPastDate       = errors.New("date must not be in the past")
	ErrInvalidDate    = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidTime    = errors.New("invalid time format")
	ErrReasonRequired = errors.New("a reason for the visit is required")

	// Not found (ownership failures use the same error to avoid leaking
	// whether the record exists at all)
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// Slot conflicts
	ErrSlotUnavailable = errors.New("the selected slot is no longer available, please choose another")

	// State conflicts
	ErrAlreadyCancelled  = errors.New("appointment is already cancelled")
	ErrAlreadyCompleted  = errors.New("appointment is already completed")
	ErrAlreadyExpired    = errors.New("appointment has expired")
	ErrAlreadyConfirmed  = errors.New("appointment is already confirmed")
	ErrAppointmentPassed = errors.New("appointment time has already passed")
	ErrNoChange          = errors.New("new appointment time is the same as the current one")

	// Time-window policy (remedy differs from plain state conflicts:
	// the patient needs to contact the clinic directly)
	ErrConfirmationExpired      = errors.New("confirmation window has expired, please contact the clinic")
	ErrWithinCancellationWindow = errors.New("appointments cannot be cancelled within 24 hours of the scheduled time, please contact the clinic")
)

// IsValidationError reports whether err is a caller-input problem.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrPastDate) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrReasonRequired)
}

// IsNotFoundError reports whether err should surface as a generic not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrDoctorNotFound) || errors.Is(err, ErrAppointmentNotFound)
}

// IsStateConflictError reports whether err is a lifecycle-state violation.
func IsStateConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyExpired) ||
		errors.Is(err, ErrAlreadyConfirmed) ||
		errors.Is(err, ErrAppointmentPassed) ||
		errors.Is(err, ErrNoChange)
}

// IsWindowExpiredError reports whether err is a time-bound policy violation.
func IsWindowExpiredError(err error) bool {
	return errors.Is(err, ErrConfirmationExpired) || errors.Is(err, ErrWithinCancellationWindow)
}
