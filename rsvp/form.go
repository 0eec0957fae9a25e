package rsvp

import (
	"errors"
	"slices"
	"strings"

	"weddingsite/model"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

var (
	ErrAlreadySubmitting = errors.New("rsvp: submission already in progress")
	ErrNotSubmitting     = errors.New("rsvp: no submission in progress")
	ErrNameRequired      = errors.New("rsvp: guest name is required")
)

// Form is the RSVP form with its submit state. The zero value is an idle,
// empty, Hungarian form.
type Form struct {
	GuestName          string
	AdditionalGuests   []string
	Phone              string
	NeedsAccommodation bool
	NeedsTransport     bool
	Volunteer          []string
	Comments           string
	Language           model.Language

	state State
}

// NewForm returns an empty form for lang.
func NewForm(lang model.Language) *Form {
	return &Form{Language: lang, state: StateIdle}
}

// Succeeded returns an empty form showing the success banner, as rendered
// after a reply was stored and the browser followed the redirect.
func Succeeded(lang model.Language) *Form {
	return &Form{Language: lang, state: StateSuccess}
}

func (f *Form) State() State {
	if f.state == "" {
		return StateIdle
	}
	return f.state
}

// IsSubmitting reports whether a submission is in flight.
func (f *Form) IsSubmitting() bool {
	return f.State() == StateSubmitting
}

// CanSubmit reports whether the submit button is enabled.
func (f *Form) CanSubmit() bool {
	return !f.IsSubmitting() && strings.TrimSpace(f.GuestName) != ""
}

func (f *Form) AddGuest() {
	f.AdditionalGuests = append(f.AdditionalGuests, "")
}

func (f *Form) RemoveGuest(index int) {
	if index < 0 || index >= len(f.AdditionalGuests) {
		return
	}
	f.AdditionalGuests = slices.Delete(f.AdditionalGuests, index, index+1)
}

func (f *Form) UpdateGuest(index int, name string) {
	if index < 0 || index >= len(f.AdditionalGuests) {
		return
	}
	f.AdditionalGuests[index] = name
}

// ToggleVolunteer selects or deselects a volunteer option.
func (f *Form) ToggleVolunteer(option string) {
	if i := slices.Index(f.Volunteer, option); i >= 0 {
		f.Volunteer = slices.Delete(f.Volunteer, i, i+1)
		return
	}
	f.Volunteer = append(f.Volunteer, option)
}

// Submit moves the form to submitting and returns the payload to send.
// Any earlier success or error banner is cleared.
func (f *Form) Submit() (Input, error) {
	if f.IsSubmitting() {
		return Input{}, ErrAlreadySubmitting
	}
	if strings.TrimSpace(f.GuestName) == "" {
		return Input{}, ErrNameRequired
	}
	f.state = StateSubmitting
	return f.Payload(), nil
}

// Resolve ends the in-flight submission. On success the fields are reset;
// on failure they are kept so the guest can retry.
func (f *Form) Resolve(err error) error {
	if !f.IsSubmitting() {
		return ErrNotSubmitting
	}
	if err != nil {
		f.state = StateError
		return nil
	}
	lang := f.Language
	*f = Form{Language: lang, state: StateSuccess}
	return nil
}

// Payload builds the request body: trimmed name, phone and comments, blank
// additional guests dropped, empty optional fields omitted.
func (f *Form) Payload() Input {
	guests := make([]string, 0, len(f.AdditionalGuests))
	for _, g := range f.AdditionalGuests {
		if strings.TrimSpace(g) != "" {
			guests = append(guests, g)
		}
	}
	volunteer := make([]string, len(f.Volunteer))
	copy(volunteer, f.Volunteer)
	lang := f.Language
	if lang == "" {
		lang = model.Hungarian
	}
	return Input{
		GuestName:          strings.TrimSpace(f.GuestName),
		AdditionalGuests:   guests,
		Phone:              optional(f.Phone),
		NeedsAccommodation: f.NeedsAccommodation,
		NeedsTransport:     f.NeedsTransport,
		VolunteerOptions:   volunteer,
		Comments:           optional(f.Comments),
		Language:           lang,
	}
}
