package timesheet

import "time"

// =============================================================================
// MERGE - Identity-keyed last-writer-wins reconciliation
// =============================================================================

// Export stamp. Version changes only when the document shape changes.
const (
	AppName       = "timesheet-engine"
	FormatVersion = 1
)

// Merge combines two snapshots record-by-record. For each collection it
// builds an identity-keyed union where an id present on both sides takes
// the incoming record wholesale (no field-level merging). Ids only in
// current are retained, ids only in incoming are appended in incoming
// order.
//
// The operation is NOT commutative: Merge(a, b) != Merge(b, a) whenever
// both sides modified the same id. Callers must treat incoming as
// authoritative per-id. updatedAt never breaks ties.
func Merge(current, incoming *Snapshot) *Snapshot {
	out := &Snapshot{
		Clients: mergeByID(current.Clients, incoming.Clients, func(c Client) string { return c.ID }),
		Sheets:  mergeByID(current.Sheets, incoming.Sheets, func(s Sheet) string { return s.ID }),
		Entries: mergeByID(current.Entries, incoming.Entries, func(e Entry) string { return e.ID }),
	}

	// Settings: the sync block from the sanitized incoming side replaces
	// the current one wholesale, then gets default-filled again.
	out.Settings = incoming.Settings
	fillSyncDefaults(&out.Settings.Sync)
	return out
}

// mergeByID performs the per-collection union. Current order is preserved
// with replacements applied in place; incoming-only records follow in
// incoming order.
func mergeByID[T any](current, incoming []T, id func(T) string) []T {
	replacements := make(map[string]T, len(incoming))
	for _, rec := range incoming {
		replacements[id(rec)] = rec
	}

	out := make([]T, 0, len(current)+len(incoming))
	seen := make(map[string]bool, len(current))
	for _, rec := range current {
		k := id(rec)
		if inc, ok := replacements[k]; ok {
			out = append(out, inc)
		} else {
			out = append(out, rec)
		}
		seen[k] = true
	}
	for _, rec := range incoming {
		if !seen[id(rec)] {
			out = append(out, rec)
		}
	}
	return out
}

// =============================================================================
// EXPORT
// =============================================================================

// Export serializes the snapshot as the canonical document plus a meta
// stamp. Re-importing an unmodified export and merging it against the same
// snapshot reproduces that snapshot exactly.
func Export(s *Snapshot, at time.Time) *Document {
	c := s.Clone()
	return &Document{
		Meta: &Meta{
			ExportedAt: at.UTC().Format(time.RFC3339),
			App:        AppName,
			Version:    FormatVersion,
		},
		Clients:  c.Clients,
		Sheets:   c.Sheets,
		Entries:  c.Entries,
		Settings: c.Settings,
	}
}

// DocumentOf is the persisted form of a snapshot: the canonical document
// without an export stamp.
func DocumentOf(s *Snapshot) *Document {
	c := s.Clone()
	return &Document{
		Clients:  c.Clients,
		Sheets:   c.Sheets,
		Entries:  c.Entries,
		Settings: c.Settings,
	}
}
