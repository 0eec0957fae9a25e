package rsvp

import (
	"errors"
	"testing"

	"weddingsite/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormStartsIdle(t *testing.T) {
	var f Form
	assert.Equal(t, StateIdle, f.State())
	assert.False(t, f.CanSubmit())

	f.GuestName = "   "
	assert.False(t, f.CanSubmit())
	_, err := f.Submit()
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Equal(t, StateIdle, f.State())
}

func TestFormSuccessResetsFields(t *testing.T) {
	f := NewForm(model.English)
	f.GuestName = "  Anna Kovács "
	f.AddGuest()
	f.UpdateGuest(0, "Béla")
	f.Phone = "+36 30 111 2222"
	f.NeedsTransport = true
	f.ToggleVolunteer("Dekoráció")

	payload, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, f.State())
	assert.False(t, f.CanSubmit())
	assert.Equal(t, "Anna Kovács", payload.GuestName)
	assert.Equal(t, []string{"Béla"}, payload.AdditionalGuests)
	require.NotNil(t, payload.Phone)
	assert.Equal(t, "+36 30 111 2222", *payload.Phone)
	assert.Nil(t, payload.Comments)
	assert.Equal(t, model.English, payload.Language)

	_, err = f.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitting)

	require.NoError(t, f.Resolve(nil))
	assert.Equal(t, StateSuccess, f.State())
	assert.Empty(t, f.GuestName)
	assert.Empty(t, f.AdditionalGuests)
	assert.False(t, f.NeedsTransport)
	assert.Empty(t, f.Volunteer)
	assert.Equal(t, model.English, f.Language)
}

func TestFormErrorKeepsFields(t *testing.T) {
	f := NewForm(model.Hungarian)
	f.GuestName = "Anna"
	_, err := f.Submit()
	require.NoError(t, err)

	require.NoError(t, f.Resolve(errors.New("network down")))
	assert.Equal(t, StateError, f.State())
	assert.Equal(t, "Anna", f.GuestName)

	_, err = f.Submit()
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, f.State())
}

func TestSucceededForm(t *testing.T) {
	f := Succeeded(model.English)
	assert.Equal(t, StateSuccess, f.State())
	assert.Equal(t, model.English, f.Language)
	assert.Empty(t, f.GuestName)

	f.GuestName = "Anna"
	_, err := f.Submit()
	require.NoError(t, err, "a new reply can follow a success")
}

func TestResolveRequiresSubmission(t *testing.T) {
	f := NewForm(model.Hungarian)
	assert.ErrorIs(t, f.Resolve(nil), ErrNotSubmitting)
}

func TestGuestListEditing(t *testing.T) {
	f := NewForm(model.Hungarian)
	f.AddGuest()
	f.AddGuest()
	f.AddGuest()
	f.UpdateGuest(0, "A")
	f.UpdateGuest(1, "B")
	f.UpdateGuest(2, "C")
	f.UpdateGuest(5, "ignored")
	f.RemoveGuest(1)
	f.RemoveGuest(-1)
	assert.Equal(t, []string{"A", "C"}, f.AdditionalGuests)
}

func TestToggleVolunteer(t *testing.T) {
	f := NewForm(model.Hungarian)
	f.ToggleVolunteer("Sütés")
	f.ToggleVolunteer("Zene")
	f.ToggleVolunteer("Sütés")
	assert.Equal(t, []string{"Zene"}, f.Volunteer)
}

func TestPayloadDropsBlankGuestsAndEmptyOptionals(t *testing.T) {
	f := Form{GuestName: "Anna", AdditionalGuests: []string{"", "  ", "Béla"}, Phone: "  ", Comments: " hello "}
	p := f.Payload()
	assert.Equal(t, []string{"Béla"}, p.AdditionalGuests)
	assert.Nil(t, p.Phone)
	require.NotNil(t, p.Comments)
	assert.Equal(t, "hello", *p.Comments)
	assert.Equal(t, model.Hungarian, p.Language)
}
