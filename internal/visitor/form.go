package visitor

import (
	"fmt"
	"strings"
)

// Field names one input on the card.
type Field int

const (
	FieldFirstName Field = iota
	FieldLastName
	FieldEmail
	FieldAddress
	FieldCityOrRegion
	FieldAgeRange
	FieldPrayerRequest
	FieldMembershipInterest
)

var fieldNames = []string{
	FieldFirstName:          "firstName",
	FieldLastName:           "lastName",
	FieldEmail:              "email",
	FieldAddress:            "address",
	FieldCityOrRegion:       "cityOrRegion",
	FieldAgeRange:           "ageRange",
	FieldPrayerRequest:      "prayerRequest",
	FieldMembershipInterest: "membershipInterest",
}

// Fields returns every card field in form order.
func Fields() []Field {
	out := make([]Field, len(fieldNames))
	for i := range fieldNames {
		out[i] = Field(i)
	}
	return out
}

// ParseField maps a JSON field name to a Field.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)
	for i, n := range fieldNames {
		if n == name {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Form is the draft card a visitor is filling in. A Form is not safe for
// concurrent use; callers own one draft per visitor.
type Form struct {
	record Record
}

// NewForm returns a blank draft.
func NewForm() *Form {
	return &Form{record: DefaultRecord()}
}

// FormFromRecord seeds a draft with an existing record, e.g. one restored
// from a session store.
func FormFromRecord(r Record) *Form {
	return &Form{record: r}
}

// SetField updates one field. Enum fields are parsed from their labels and
// an invalid label leaves the draft untouched.
func (f *Form) SetField(name Field, value string) error {
	switch name {
	case FieldFirstName:
		f.record.FirstName = value
	case FieldLastName:
		f.record.LastName = value
	case FieldEmail:
		f.record.Email = value
	case FieldAddress:
		f.record.Address = value
	case FieldCityOrRegion:
		f.record.CityOrRegion = value
	case FieldPrayerRequest:
		f.record.PrayerRequest = value
	case FieldAgeRange:
		r, err := ParseAgeRange(value)
		if err != nil {
			return err
		}
		f.record.AgeRange = r
	case FieldMembershipInterest:
		m, err := ParseMembershipInterest(value)
		if err != nil {
			return err
		}
		f.record.MembershipInterest = m
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// SetAgeRange sets the bracket from a selector bound to AgeRanges.
func (f *Form) SetAgeRange(r AgeRange) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAgeRange, int(r))
	}
	f.record.AgeRange = r
	return nil
}

// SetMembershipInterest sets the answer from a selector bound to MembershipInterests.
func (f *Form) SetMembershipInterest(m MembershipInterest) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMembershipInterest, int(m))
	}
	f.record.MembershipInterest = m
	return nil
}

// Get returns the current value of a field as the form displays it.
func (f *Form) Get(name Field) string {
	switch name {
	case FieldFirstName:
		return f.record.FirstName
	case FieldLastName:
		return f.record.LastName
	case FieldEmail:
		return f.record.Email
	case FieldAddress:
		return f.record.Address
	case FieldCityOrRegion:
		return f.record.CityOrRegion
	case FieldAgeRange:
		return f.record.AgeRange.String()
	case FieldPrayerRequest:
		return f.record.PrayerRequest
	case FieldMembershipInterest:
		return f.record.MembershipInterest.String()
	}
	return ""
}

// Snapshot returns a copy of the draft. Record holds only value fields, so
// the copy shares nothing with the live form.
func (f *Form) Snapshot() Record {
	return f.record
}

// Reset clears the draft back to its defaults.
func (f *Form) Reset() {
	f.record = DefaultRecord()
}
