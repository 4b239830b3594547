package visitor

import (
	"encoding/json"
	"strings"
)

// Record is one filled-in connection card.
type Record struct {
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Email              string             `json:"email"`
	Address            string             `json:"address"`
	CityOrRegion       string             `json:"cityOrRegion"`
	AgeRange           AgeRange           `json:"ageRange"`
	PrayerRequest      string             `json:"prayerRequest"`
	MembershipInterest MembershipInterest `json:"membershipInterest"`
}

// DefaultRecord is a blank card with the default age bracket and membership answer.
func DefaultRecord() Record {
	return Record{
		AgeRange:           AgeRange30To49,
		MembershipInterest: MembershipNo,
	}
}

// Validate checks the fields the card marks as required. Enum fields are
// valid by construction.
func (r Record) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return ErrMissingFirstName
	}
	if strings.TrimSpace(r.LastName) == "" {
		return ErrMissingLastName
	}
	return nil
}

// UnmarshalJSON decodes a card, starting from the defaults so omitted enum
// fields keep their default values. Older web clients sent the location as
// cityStateZip or location; both are accepted.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		CityStateZip *string `json:"cityStateZip"`
		Location     *string `json:"location"`
	}{}

	decoded := DefaultRecord()
	aux.plain = (*plain)(&decoded)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if decoded.CityOrRegion == "" {
		switch {
		case aux.CityStateZip != nil:
			decoded.CityOrRegion = *aux.CityStateZip
		case aux.Location != nil:
			decoded.CityOrRegion = *aux.Location
		}
	}
	*r = decoded
	return nil
}
