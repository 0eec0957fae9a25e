// Package rsvp covers the RSVP form: the submission payload and its
// validation, the form state machine, and reporting over stored replies.
package rsvp

import (
	"strings"

	"weddingsite/model"
	"weddingsite/validation"
)

// Input is the payload accepted by the RSVP endpoint.
type Input struct {
	GuestName          string         `json:"guestName" validate:"minrunes=2"`
	AdditionalGuests   []string       `json:"additionalGuests"`
	Phone              *string        `json:"phone,omitempty"`
	NeedsAccommodation bool           `json:"needsAccommodation"`
	NeedsTransport     bool           `json:"needsTransport"`
	VolunteerOptions   []string       `json:"volunteerOptions"`
	Comments           *string        `json:"comments,omitempty"`
	Language           model.Language `json:"language" validate:"oneof=hu en"`
}

// NameMessage is reported when the guest name is too short.
const NameMessage = "A név legalább 2 karakter legyen"

var validate = validation.New(map[string]string{
	"minrunes": NameMessage,
})

// Normalize trims the guest name and fills defaults: empty lists, Hungarian language.
func (in *Input) Normalize() {
	in.GuestName = strings.TrimSpace(in.GuestName)
	if in.AdditionalGuests == nil {
		in.AdditionalGuests = []string{}
	}
	if in.VolunteerOptions == nil {
		in.VolunteerOptions = []string{}
	}
	if in.Language == "" {
		in.Language = model.Hungarian
	}
}

// Validate normalizes the input and checks it.
func (in *Input) Validate() error {
	in.Normalize()
	return validate.Struct(in)
}

// Submission converts validated input into a row. id and the creation time
// are assigned by the store.
func (in Input) Submission() model.RsvpSubmission {
	in.Normalize()
	return model.RsvpSubmission{
		GuestName:          in.GuestName,
		AdditionalGuests:   in.AdditionalGuests,
		Phone:              in.Phone,
		NeedsAccommodation: in.NeedsAccommodation,
		NeedsTransport:     in.NeedsTransport,
		VolunteerOptions:   in.VolunteerOptions,
		Comments:           in.Comments,
		Language:           in.Language,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
