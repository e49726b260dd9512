package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func TestFile_LoadMissingIsEmptySlot(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "snapshot.json"))

	raw, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != nil {
		t.Errorf("expected empty slot, got %q", raw)
	}
}

func TestFile_SaveCreatesParentAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "snapshot.json")
	f := NewFile(path)
	blob := []byte(`{"clients": []}`)

	if err := f.Save(context.Background(), blob); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := f.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(raw, blob) {
		t.Errorf("round trip: got %q, want %q", raw, blob)
	}
}

func TestMemory_CopiesOnSaveAndLoad(t *testing.T) {
	m := NewMemory()
	blob := []byte(`{"entries": []}`)

	if err := m.Save(context.Background(), blob); err != nil {
		t.Fatalf("save: %v", err)
	}
	blob[0] = 'X' // caller mutation must not leak into the slot

	raw, err := m.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if raw[0] != '{' {
		t.Error("stored blob aliases the caller's slice")
	}
}
