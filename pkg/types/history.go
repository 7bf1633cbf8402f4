package types

import "time"

// HistoryEntry is one row of the history mirror store: a compact snapshot of
// a diagram keyed by diagram id, owned by an obfuscated user identity.
// Entries are never written by callers directly; the synchronization routine
// derives them from the local store after each mutation.
type HistoryEntry struct {
	ID        string    // diagram id
	UID       string    // obfuscated owner identity
	Metadata  string    // obfuscated serialized diagram snapshot
	CreatedAt time.Time // taken from the diagram on first sync
	UpdatedAt time.Time // mirrors the diagram's UpdatedAt, not wall clock
}
