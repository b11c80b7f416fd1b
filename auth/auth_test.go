// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int
	}{
		{"16 bytes", 16, 32},
		{"12 bytes", 12, 24},
		{"1 byte", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID failed: %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("expected length %d, got %d", tt.wantLen, len(id))
			}
		})
	}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID(16)
		if err != nil {
			t.Fatalf("GenerateID failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestOrganizerKey_Deterministic(t *testing.T) {
	key1 := GenerateOrganizerKey("event-1", "salt")
	key2 := GenerateOrganizerKey("event-1", "salt")
	if key1 != key2 {
		t.Error("same event and salt should produce the same key")
	}

	other := GenerateOrganizerKey("event-2", "salt")
	if key1 == other {
		t.Error("different events should produce different keys")
	}

	otherSalt := GenerateOrganizerKey("event-1", "other-salt")
	if key1 == otherSalt {
		t.Error("different salts should produce different keys")
	}
}

func TestValidateOrganizerKey(t *testing.T) {
	key := GenerateOrganizerKey("event-1", "salt")

	if err := ValidateOrganizerKey("event-1", key, "salt"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}

	if err := ValidateOrganizerKey("event-1", "bogus", "salt"); err == nil {
		t.Error("bogus key accepted")
	}

	if err := ValidateOrganizerKey("event-2", key, "salt"); err == nil {
		t.Error("key for another event accepted")
	}
}

func TestParticipantID_Format(t *testing.T) {
	id, err := ParticipantID("resp")
	if err != nil {
		t.Fatalf("ParticipantID failed: %v", err)
	}

	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %s", len(parts), id)
	}
	if parts[0] != "resp" {
		t.Errorf("expected prefix resp, got %s", parts[0])
	}
	if len(parts[2]) != 9 {
		t.Errorf("expected 9-char suffix, got %q", parts[2])
	}

	voter, _ := ParticipantID("voter")
	if strings.HasPrefix(voter, "resp_") {
		t.Error("prefixes must keep namespaces apart")
	}
}
