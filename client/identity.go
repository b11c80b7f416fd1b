// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/models"
)

// Storage keys. Poll voters are stored per event under voterInfo_<pollId>;
// the schedule respondent id is one id shared across schedules.
const respondentIDKey = "schedule_respondent_id"

func voterInfoKey(pollID string) string { return "voterInfo_" + pollID }

// LocalVoter is the client-held identity for one poll: a generated id plus
// the display name last used. It is a convenience record, never
// server-authoritative.
type LocalVoter struct {
	VoterID   string `json:"voterId"`
	VoterName string `json:"voterName"`
}

// EnsureID returns the persisted id stored under storageKey, generating
// and persisting a fresh one with the given prefix if absent. Idempotent:
// repeated calls in the same store return the same id.
func EnsureID(st *Store, storageKey, prefix string) (string, error) {
	var id string
	ok, err := st.Get(storageKey, &id)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id, err = auth.ParticipantID(prefix)
	if err != nil {
		return "", err
	}
	if err := st.Set(storageKey, id); err != nil {
		return "", err
	}
	return id, nil
}

// EnsureRespondentID returns this client's schedule respondent id.
func EnsureRespondentID(st *Store) (string, error) {
	return EnsureID(st, respondentIDKey, "resp")
}

// NewLocalVoter creates and persists a voter identity for one poll.
func NewLocalVoter(st *Store, pollID, name string) (LocalVoter, error) {
	id, err := auth.ParticipantID("voter")
	if err != nil {
		return LocalVoter{}, err
	}
	voter := LocalVoter{VoterID: id, VoterName: name}
	return voter, SaveLocalVoter(st, pollID, voter)
}

// SaveLocalVoter persists the voter record for a poll.
func SaveLocalVoter(st *Store, pollID string, voter LocalVoter) error {
	return st.Set(voterInfoKey(pollID), voter)
}

// LoadLocalVoter returns the remembered voter for a poll, reconciled
// against the fetched poll data. If the stored id no longer appears among
// the poll's voters (the organizer may have reset or deleted responses)
// the stale record is discarded and nil is returned. If it does appear,
// the display name is refreshed from the server copy.
func LoadLocalVoter(st *Store, poll models.Poll) (*LocalVoter, error) {
	var voter LocalVoter
	ok, err := st.Get(voterInfoKey(poll.ID), &voter)
	if err != nil || !ok {
		return nil, err
	}

	for _, opt := range poll.Options {
		for _, v := range opt.Voters {
			if v.ID == voter.VoterID {
				if v.Name != voter.VoterName {
					voter.VoterName = v.Name
					if err := SaveLocalVoter(st, poll.ID, voter); err != nil {
						return nil, err
					}
				}
				return &voter, nil
			}
		}
	}

	// Stale: the server no longer knows this voter
	if err := st.Delete(voterInfoKey(poll.ID)); err != nil {
		return nil, err
	}
	return nil, nil
}

// RenameLocalVoter updates the display name while keeping the id: a
// relabeling, never a new participant.
func RenameLocalVoter(st *Store, pollID, name string) (*LocalVoter, error) {
	var voter LocalVoter
	ok, err := st.Get(voterInfoKey(pollID), &voter)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	voter.VoterName = name
	return &voter, SaveLocalVoter(st, pollID, voter)
}
