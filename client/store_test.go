// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenStore(filepath.Join(t.TempDir(), "store.json"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return st
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	st, err := OpenStore(path)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	if err := st.Set("greeting", "hello"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if err := st.Set("ids", []string{"a", "b"}); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	// A fresh store over the same file sees the persisted values
	st2, err := OpenStore(path)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}

	var greeting string
	ok, err := st2.Get("greeting", &greeting)
	if err != nil || !ok || greeting != "hello" {
		t.Errorf("Get(greeting) = (%q, %v, %v)", greeting, ok, err)
	}

	var ids []string
	ok, err = st2.Get("ids", &ids)
	if err != nil || !ok || len(ids) != 2 {
		t.Errorf("Get(ids) = (%v, %v, %v)", ids, ok, err)
	}
}

func TestStoreMissingKey(t *testing.T) {
	st := tempStore(t)

	var v string
	ok, err := st.Get("absent", &v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent key to report not present")
	}
}

func TestStoreDelete(t *testing.T) {
	st := tempStore(t)

	if err := st.Set("key", 42); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete("key"); err != nil {
		t.Fatal(err)
	}

	var v int
	if ok, _ := st.Get("key", &v); ok {
		t.Error("expected key to be gone after delete")
	}

	// Deleting a missing key is a no-op
	if err := st.Delete("never-there"); err != nil {
		t.Errorf("delete of a missing key should not fail: %v", err)
	}
}

func TestOpenStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "store.json")
	st, err := OpenStore(path)
	if err != nil {
		t.Fatalf("a missing file should open as an empty store: %v", err)
	}

	// First write creates the parent directory
	if err := st.Set("key", true); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected the store file to exist: %v", err)
	}
}
