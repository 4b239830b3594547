package visitor

import "errors"

var (
	// ErrInvalidAgeRange is returned when a label is not one of the age brackets
	ErrInvalidAgeRange = errors.New("age range must be one of 13-17, 18-29, 30-49, 50-69, 70+")

	// ErrInvalidMembershipInterest is returned for anything other than yes, no or maybe
	ErrInvalidMembershipInterest = errors.New("membership interest must be yes, no or maybe")

	// ErrUnknownField is returned when a field name does not exist on the card
	ErrUnknownField = errors.New("unknown card field")

	// ErrMissingFirstName is returned at submit when the first name is blank
	ErrMissingFirstName = errors.New("first name is required")

	// ErrMissingLastName is returned at submit when the last name is blank
	ErrMissingLastName = errors.New("last name is required")
)
