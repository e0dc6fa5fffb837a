package model

import (
	"strings"
	"unicode/utf8"
)

type MediumType string

const (
	MediumEmail                   MediumType = "Email"
	MediumAddress                 MediumType = "Address"
	MediumPhoneNumber             MediumType = "PhoneNumber"
	MediumEmailAddress            MediumType = "EmailAddress"
	MediumEmailPhoneNumber        MediumType = "EmailPhoneNumber"
	MediumPhoneNumberAddress      MediumType = "PhoneNumberAddress"
	MediumEmailPhoneNumberAddress MediumType = "EmailPhoneNumberAddress"
)

const MaxNoteLength = 1000

// ValidationError is an invariant violation on caller-supplied data.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// DeriveMediumType computes the medium type from the attributes that are present.
// A city alone counts as an address.
func DeriveMediumType(a ContactMediumAttribute) (MediumType, error) {
	phone := strings.TrimSpace(a.PhoneNumber) != ""
	email := strings.TrimSpace(a.Email) != ""
	city := strings.TrimSpace(a.City) != ""

	switch {
	case phone && email && city:
		return MediumEmailPhoneNumberAddress, nil
	case phone && email:
		return MediumEmailPhoneNumber, nil
	case phone && city:
		return MediumPhoneNumberAddress, nil
	case email && city:
		return MediumEmailAddress, nil
	case phone:
		return MediumPhoneNumber, nil
	case email:
		return MediumEmail, nil
	case city:
		return MediumAddress, nil
	default:
		return "", invalid("Either phoneNumber or email is required.")
	}
}

// ValidateContact enforces that a participant is reachable by phone or email.
func ValidateContact(a ContactMediumAttribute) error {
	if strings.TrimSpace(a.PhoneNumber) == "" && strings.TrimSpace(a.Email) == "" {
		return invalid("Either phoneNumber or email is required")
	}
	return nil
}

// PrepareParticipant validates p and fills in its derived medium type.
func PrepareParticipant(p *Participant) error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("participant name is required")
	}
	if err := ValidateContact(p.ContactMedium.Attribute); err != nil {
		return err
	}
	mt, err := DeriveMediumType(p.ContactMedium.Attribute)
	if err != nil {
		return err
	}
	p.ContactMedium.MediumType = mt
	return nil
}

// ValidateLocation enforces the meeting-link rule for online appointments.
func ValidateLocation(t LocationType, link string) error {
	if !t.Valid() {
		return invalid("locationType must be PHYSICAL or ONLINE")
	}
	if t == LocationOnline && strings.TrimSpace(link) == "" {
		return invalid("Location or meeting link is required for online appointments.")
	}
	return nil
}

func ValidateNote(text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("note text is required")
	}
	if utf8.RuneCountInString(text) > MaxNoteLength {
		return invalid("note text must not exceed 1000 characters")
	}
	return nil
}
