package visitor

import (
	"fmt"
	"strings"
)

// AgeRange is the visitor's age bracket. The zero value is the default
// bracket, 30-49.
type AgeRange int

const (
	AgeRange30To49 AgeRange = iota
	AgeRange13To17
	AgeRange18To29
	AgeRange50To69
	AgeRange70Plus
)

var ageRangeLabels = map[AgeRange]string{
	AgeRange13To17: "13-17",
	AgeRange18To29: "18-29",
	AgeRange30To49: "30-49",
	AgeRange50To69: "50-69",
	AgeRange70Plus: "70+",
}

// AgeRanges lists the brackets youngest first, the order a selector shows them.
func AgeRanges() []AgeRange {
	return []AgeRange{AgeRange13To17, AgeRange18To29, AgeRange30To49, AgeRange50To69, AgeRange70Plus}
}

// ParseAgeRange maps a label such as "18-29" to its bracket.
func ParseAgeRange(label string) (AgeRange, error) {
	label = strings.TrimSpace(label)
	for _, r := range AgeRanges() {
		if ageRangeLabels[r] == label {
			return r, nil
		}
	}
	return AgeRange30To49, fmt.Errorf("%w: %q", ErrInvalidAgeRange, label)
}

func (r AgeRange) String() string {
	if label, ok := ageRangeLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("AgeRange(%d)", int(r))
}

// Valid reports whether r is one of the declared brackets.
func (r AgeRange) Valid() bool {
	_, ok := ageRangeLabels[r]
	return ok
}

func (r AgeRange) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAgeRange, int(r))
	}
	return []byte(r.String()), nil
}

func (r *AgeRange) UnmarshalText(text []byte) error {
	parsed, err := ParseAgeRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MembershipInterest records whether the visitor wants to hear about
// membership. The zero value is MembershipNo.
type MembershipInterest int

const (
	MembershipNo MembershipInterest = iota
	MembershipYes
	MembershipMaybe
)

var membershipLabels = map[MembershipInterest]string{
	MembershipYes:   "yes",
	MembershipNo:    "no",
	MembershipMaybe: "maybe",
}

// MembershipInterests lists the choices in display order.
func MembershipInterests() []MembershipInterest {
	return []MembershipInterest{MembershipYes, MembershipNo, MembershipMaybe}
}

// ParseMembershipInterest accepts yes, no or maybe in any case.
func ParseMembershipInterest(label string) (MembershipInterest, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, m := range MembershipInterests() {
		if membershipLabels[m] == label {
			return m, nil
		}
	}
	return MembershipNo, fmt.Errorf("%w: %q", ErrInvalidMembershipInterest, label)
}

func (m MembershipInterest) String() string {
	if label, ok := membershipLabels[m]; ok {
		return label
	}
	return fmt.Sprintf("MembershipInterest(%d)", int(m))
}

// Valid reports whether m is yes, no or maybe.
func (m MembershipInterest) Valid() bool {
	_, ok := membershipLabels[m]
	return ok
}

// Interested is true for yes and maybe, the answers the welcome should mention.
func (m MembershipInterest) Interested() bool {
	return m == MembershipYes || m == MembershipMaybe
}

func (m MembershipInterest) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMembershipInterest, int(m))
	}
	return []byte(m.String()), nil
}

func (m *MembershipInterest) UnmarshalText(text []byte) error {
	parsed, err := ParseMembershipInterest(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
