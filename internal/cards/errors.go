package cards

import "errors"

var (
	// ErrDraftNotFound is returned when a draft id is unknown or expired
	ErrDraftNotFound = errors.New("draft not found")

	// ErrSubmitInFlight is returned when a draft is edited, reset or submitted
	// while a submit holds its lock
	ErrSubmitInFlight = errors.New("a submission for this card is already in progress")

	// ErrNotEditing is returned when a draft showing its result is edited or resubmitted
	ErrNotEditing = errors.New("card has already been submitted; reset it to start over")

	// ErrEmptyUpdate is returned when a draft update carries no fields
	ErrEmptyUpdate = errors.New("no fields to update")
)
