package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(id, uid string) *types.HistoryEntry {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &types.HistoryEntry{
		ID:        id,
		UID:       uid,
		Metadata:  types.Obfuscate(`{"id":"` + id + `"}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestEntryCRUD(t *testing.T) {
	s := openTestStore(t)

	e := testEntry("d1", "dXNlcg==")
	if err := s.Add(e); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	got, err := s.Get("d1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.UID != e.UID || got.Metadata != e.Metadata {
		t.Fatalf("Get() = %+v", got)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) || !got.UpdatedAt.Equal(e.UpdatedAt) {
		t.Fatalf("timestamps did not round-trip: %+v", got)
	}

	// Update rewrites metadata and updated_at, preserving uid and created_at.
	newMeta := types.Obfuscate(`{"id":"d1","name":"renamed"}`)
	newTime := e.UpdatedAt.Add(time.Hour)
	if err := s.Update("d1", newMeta, newTime); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	got, err = s.Get("d1")
	if err != nil {
		t.Fatalf("Get() after update failed: %v", err)
	}
	if got.Metadata != newMeta {
		t.Fatal("metadata not updated")
	}
	if !got.UpdatedAt.Equal(newTime) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, newTime)
	}
	if got.UID != e.UID || !got.CreatedAt.Equal(e.CreatedAt) {
		t.Fatalf("update touched uid or created_at: %+v", got)
	}

	if err := s.Delete("d1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := s.Get("d1"); !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	s := openTestStore(t)

	if err := s.Delete("nope"); err != nil {
		t.Fatalf("Delete on missing id = %v, want nil", err)
	}
}

func TestListByUID(t *testing.T) {
	s := openTestStore(t)

	for _, e := range []*types.HistoryEntry{
		testEntry("d1", "alice"),
		testEntry("d2", "bob"),
		testEntry("d3", "alice"),
	} {
		if err := s.Add(e); err != nil {
			t.Fatalf("Add(%s) failed: %v", e.ID, err)
		}
	}

	entries, err := s.ListByUID("alice")
	if err != nil {
		t.Fatalf("ListByUID() failed: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "d1" || entries[1].ID != "d3" {
		t.Fatalf("ListByUID() = %+v, want [d1, d3] in insertion order", entries)
	}

	entries, err = s.ListByUID("nobody")
	if err != nil {
		t.Fatalf("ListByUID(nobody) failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("ListByUID(nobody) returned %d entries", len(entries))
	}
}

func TestReopenPreservesEntries(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Add(testEntry("d1", "alice")); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	if _, err := s2.Get("d1"); err != nil {
		t.Fatalf("Get() after reopen failed: %v", err)
	}
}
