package coverage

import "errors"

var (
	// ErrNotFound is returned when a patient, insurer or application does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when an insurer acts on an application it does not own.
	ErrForbidden = errors.New("application does not belong to caller")

	// ErrDuplicatePendingApplication is returned when a patient already has a
	// pending application with some insurer.
	ErrDuplicatePendingApplication = errors.New("patient already has a pending application")

	// ErrAlreadyCovered is returned when a patient whose application was
	// accepted tries to apply again.
	ErrAlreadyCovered = errors.New("patient already has an accepted application")

	// ErrInvalidDecision is returned when a decision is neither accepted nor declined.
	ErrInvalidDecision = errors.New("decision must be accepted or declined")

	// ErrApplicationNotAccepted is returned when booking is attempted before
	// the application has been accepted.
	ErrApplicationNotAccepted = errors.New("application has not been accepted")

	// ErrAlreadyScheduled is returned when booking is attempted for a patient
	// whose appointment is already scheduled.
	ErrAlreadyScheduled = errors.New("appointment already scheduled")

	// ErrNotApplicable is returned when a classification result carries no
	// usable diagnosis.
	ErrNotApplicable = errors.New("classification is not applicable")
)
