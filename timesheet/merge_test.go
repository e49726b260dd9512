package timesheet_test

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func entrySnapshot(entries ...timesheet.Entry) *timesheet.Snapshot {
	s := timesheet.NewSnapshot()
	s.Entries = entries
	return s
}

func entry(id string, total float64) timesheet.Entry {
	return timesheet.Entry{ID: id, TotalHours: total}
}

// =============================================================================
// MERGE SEMANTICS TESTS
// =============================================================================

func TestMerge_IncomingWinsOnSharedID(t *testing.T) {
	// GIVEN: Both sides hold e1 with different totals, incoming adds e2
	// WHEN: Merging with incoming authoritative
	// THEN: e1 takes the incoming record wholesale, e2 is appended

	current := entrySnapshot(entry("e1", 5))
	incoming := entrySnapshot(entry("e1", 9), entry("e2", 1))

	merged := timesheet.Merge(current, incoming)

	want := []timesheet.Entry{entry("e1", 9), entry("e2", 1)}
	if !reflect.DeepEqual(merged.Entries, want) {
		t.Errorf("merged entries = %+v, want %+v", merged.Entries, want)
	}
}

func TestMerge_CurrentOnlyRetained(t *testing.T) {
	current := entrySnapshot(entry("e1", 5), entry("e3", 2))
	incoming := entrySnapshot(entry("e1", 9))

	merged := timesheet.Merge(current, incoming)

	want := []timesheet.Entry{entry("e1", 9), entry("e3", 2)}
	if !reflect.DeepEqual(merged.Entries, want) {
		t.Errorf("merged entries = %+v, want %+v", merged.Entries, want)
	}
}

func TestMerge_NotCommutative(t *testing.T) {
	// Both sides modified e1 differently: order decides the winner.
	a := entrySnapshot(entry("e1", 5))
	b := entrySnapshot(entry("e1", 9))

	ab := timesheet.Merge(a, b)
	ba := timesheet.Merge(b, a)

	if ab.Entries[0].TotalHours != 9 {
		t.Errorf("Merge(a,b): expected incoming total 9, got %v", ab.Entries[0].TotalHours)
	}
	if ba.Entries[0].TotalHours != 5 {
		t.Errorf("Merge(b,a): expected incoming total 5, got %v", ba.Entries[0].TotalHours)
	}
}

func TestMerge_AllCollectionsIndependent(t *testing.T) {
	current := timesheet.NewSnapshot()
	current.Clients = []timesheet.Client{{ID: "c1", Name: "Acme"}}
	current.Sheets = []timesheet.Sheet{{ID: "s1", ClientID: "c1", PeriodStart: "2026-01-01", PeriodEnd: "2026-01-15"}}

	incoming := timesheet.NewSnapshot()
	incoming.Clients = []timesheet.Client{{ID: "c1", Name: "Acme Corp"}, {ID: "c2", Name: "Globex"}}
	incoming.Entries = []timesheet.Entry{entry("e1", 4)}

	merged := timesheet.Merge(current, incoming)

	if len(merged.Clients) != 2 || merged.Clients[0].Name != "Acme Corp" {
		t.Errorf("clients merged wrong: %+v", merged.Clients)
	}
	if len(merged.Sheets) != 1 || merged.Sheets[0].ID != "s1" {
		t.Errorf("sheets merged wrong: %+v", merged.Sheets)
	}
	if len(merged.Entries) != 1 || merged.Entries[0].ID != "e1" {
		t.Errorf("entries merged wrong: %+v", merged.Entries)
	}
}

func TestMerge_SyncSettingsReplacedWholesale(t *testing.T) {
	// The sanitized incoming sync block replaces the current one entirely,
	// then missing fields get defaults again.
	current := timesheet.NewSnapshot()
	current.Settings.Sync = timesheet.SyncConfig{
		ReadURL: "https://local/doc", Method: "POST", BearerToken: "tok",
	}
	incoming := timesheet.NewSnapshot()
	incoming.Settings.Sync = timesheet.SyncConfig{ReadURL: "https://remote/doc"}

	merged := timesheet.Merge(current, incoming)

	if merged.Settings.Sync.ReadURL != "https://remote/doc" {
		t.Errorf("expected incoming readUrl, got %q", merged.Settings.Sync.ReadURL)
	}
	if merged.Settings.Sync.BearerToken != "" {
		t.Errorf("expected current token dropped with wholesale replacement, got %q",
			merged.Settings.Sync.BearerToken)
	}
	if merged.Settings.Sync.Method != timesheet.MethodPut {
		t.Errorf("expected method default-filled to PUT, got %q", merged.Settings.Sync.Method)
	}
}

// =============================================================================
// EXPORT ROUND-TRIP TESTS
// =============================================================================

func TestExport_RoundTripIdempotent(t *testing.T) {
	// GIVEN: A populated snapshot S
	// WHEN: Exporting, re-sanitizing the serialized document, and merging
	//       it back over S
	// THEN: The record sets are reproduced exactly

	snap, err := timesheet.Sanitize([]byte(`{
		"clients": [{"id": "c1", "name": "Acme"}],
		"sheets": [{"id": "s1", "clientId": "c1", "personName": "Ada",
			"periodStart": "2026-08-01", "periodEnd": "2026-08-15"}],
		"entries": [{"id": "e1", "clientId": "c1", "sheetId": "s1",
			"workDate": "2026-08-03", "timeIn": "09:00", "timeOut": "17:30",
			"breakHours": 0.5, "totalHours": 8, "notes": "",
			"createdAt": "2026-08-03T18:00:00Z", "updatedAt": "2026-08-03T18:00:00Z"}],
		"settings": {"sync": {"readUrl": "https://example.com/doc"}}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := timesheet.Export(snap, time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC))
	if doc.Meta == nil || doc.Meta.App != timesheet.AppName || doc.Meta.Version != timesheet.FormatVersion {
		t.Fatalf("export meta stamp missing or wrong: %+v", doc.Meta)
	}
	if doc.Meta.ExportedAt != "2026-08-31T12:00:00Z" {
		t.Errorf("exportedAt = %q", doc.Meta.ExportedAt)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	reimported, err := timesheet.Sanitize(raw)
	if err != nil {
		t.Fatalf("re-sanitize failed: %v", err)
	}
	merged := timesheet.Merge(snap, reimported)

	if !reflect.DeepEqual(merged.Clients, snap.Clients) ||
		!reflect.DeepEqual(merged.Sheets, snap.Sheets) ||
		!reflect.DeepEqual(merged.Entries, snap.Entries) {
		t.Errorf("round trip changed records:\ngot  %+v\nwant %+v", merged, snap)
	}
	if merged.Settings.Sync != snap.Settings.Sync {
		t.Errorf("round trip changed settings: %+v vs %+v",
			merged.Settings.Sync, snap.Settings.Sync)
	}
}

func TestExport_DoesNotAliasSnapshot(t *testing.T) {
	snap := entrySnapshot(entry("e1", 5))
	doc := timesheet.Export(snap, time.Now())

	doc.Entries[0].TotalHours = 99
	if snap.Entries[0].TotalHours != 5 {
		t.Error("export shares backing array with snapshot")
	}
}
