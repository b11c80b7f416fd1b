// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"errors"

	"github.com/danielhkuo/quickly-meet/models"
)

// Storage keys for the organizer flag sets and the server-issued keys.
const (
	createdPollsKey     = "my_created_polls"
	createdSchedulesKey = "my_created_schedules"
	organizerKeysKey    = "organizer_keys"
)

// AccessState is the organizer authorization state for one event.
type AccessState int

const (
	Unverified AccessState = iota
	PasswordPrompt
	Verified
	Denied
)

func (s AccessState) String() string {
	switch s {
	case PasswordPrompt:
		return "password-prompt"
	case Verified:
		return "verified"
	case Denied:
		return "denied"
	default:
		return "unverified"
	}
}

// Organizer drives the authorization flow for one (event, kind) pair:
// either the local created-by-me flag short-circuits straight to Verified,
// or a password challenge against the server earns the organizer key.
type Organizer struct {
	store *Store
	api   *Client
	kind  string // models.KindPoll or models.KindSchedule
	id    string
	state AccessState
}

func NewOrganizer(store *Store, api *Client, kind, id string) *Organizer {
	return &Organizer{store: store, api: api, kind: kind, id: id, state: Unverified}
}

func (o *Organizer) State() AccessState { return o.state }

// IsOrganizer reports whether this event id is in the local created set.
func (o *Organizer) IsOrganizer() bool {
	ids, err := o.createdSet()
	if err != nil {
		return false
	}
	for _, id := range ids {
		if id == o.id {
			return true
		}
	}
	return false
}

// CheckAccess gates a privileged action. The local flag authorizes
// immediately; otherwise a configured password leads to a prompt, and an
// event with no password at all is a dead end for non-creators.
//
// hasPassword comes from the fetched event record. Exactly one of the
// callbacks runs on the non-error paths; the Denied path returns an
// AuthError instead, for the caller's error dialog.
func (o *Organizer) CheckAccess(hasPassword bool, onAuthorized, onPasswordRequired func()) error {
	if o.IsOrganizer() {
		o.state = Verified
		if onAuthorized != nil {
			onAuthorized()
		}
		return nil
	}

	if !hasPassword {
		o.state = Denied
		return &AuthError{Reason: "this action is for the organizer only"}
	}

	o.state = PasswordPrompt
	if onPasswordRequired != nil {
		onPasswordRequired()
	}
	return nil
}

// VerifyPassword submits the candidate password. On a match the event id
// joins the local created set, the returned organizer key is persisted,
// and the state becomes Verified. On a mismatch the state stays
// PasswordPrompt so the dialog can offer a retry.
func (o *Organizer) VerifyPassword(candidate string) error {
	var (
		key string
		err error
	)
	if o.kind == models.KindPoll {
		key, err = o.api.VerifyPollPassword(o.id, candidate)
	} else {
		key, err = o.api.VerifySchedulePassword(o.id, candidate)
	}
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			o.state = PasswordPrompt
		}
		return err
	}

	if err := o.RememberCreated(key); err != nil {
		return err
	}
	o.state = Verified
	return nil
}

// RememberCreated records this event as created-by-me and stores the
// organizer key. Called right after creating an event, and after a
// successful password challenge.
func (o *Organizer) RememberCreated(organizerKey string) error {
	ids, err := o.createdSet()
	if err != nil {
		return err
	}
	found := false
	for _, id := range ids {
		if id == o.id {
			found = true
			break
		}
	}
	if !found {
		ids = append(ids, o.id)
		if err := o.store.Set(o.createdKey(), ids); err != nil {
			return err
		}
	}

	keys := map[string]string{}
	if _, err := o.store.Get(organizerKeysKey, &keys); err != nil {
		return err
	}
	keys[o.id] = organizerKey
	return o.store.Set(organizerKeysKey, keys)
}

// Key returns the stored organizer capability for this event, if any.
func (o *Organizer) Key() (string, bool) {
	keys := map[string]string{}
	if _, err := o.store.Get(organizerKeysKey, &keys); err != nil {
		return "", false
	}
	key, ok := keys[o.id]
	return key, ok
}

func (o *Organizer) createdKey() string {
	if o.kind == models.KindPoll {
		return createdPollsKey
	}
	return createdSchedulesKey
}

func (o *Organizer) createdSet() ([]string, error) {
	ids := []string{}
	if _, err := o.store.Get(o.createdKey(), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
