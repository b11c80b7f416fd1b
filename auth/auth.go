// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidOrganizerKey = errors.New("invalid organizer key")

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOrganizerKey creates an HMAC-based organizer key for an event.
// This is deterministic and verifiable: the same event ID and salt always
// produce the same key, so nothing needs to be stored in the database.
// The key is issued at creation time and re-issued after a successful
// password challenge.
func GenerateOrganizerKey(eventID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(eventID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateOrganizerKey checks if the provided organizer key is valid for
// the event
func ValidateOrganizerKey(eventID, key, salt string) error {
	expected := GenerateOrganizerKey(eventID, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidOrganizerKey
	}
	return nil
}

const alnum = "0123456789abcdefghijklmnopqrstuvwxyz"

// ParticipantID creates a client-style participant identifier:
// prefix_<unix millis>_<9 random alphanumerics>. Poll voters and schedule
// respondents use different prefixes so the namespaces never collide.
func ParticipantID(prefix string) (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate participant ID: %w", err)
	}
	for i := range b {
		b[i] = alnum[int(b[i])%len(alnum)]
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), b), nil
}
