package timesheet_test

import (
	"errors"
	"testing"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// ROOT SHAPE TESTS
// =============================================================================

func TestSanitize_EmptyObject_FullDefaults(t *testing.T) {
	// GIVEN: A bare {} document
	// WHEN: Sanitizing
	// THEN: Empty collections and a fully defaulted sync config

	snap, err := timesheet.Sanitize([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Clients) != 0 || len(snap.Sheets) != 0 || len(snap.Entries) != 0 {
		t.Errorf("expected empty collections, got %d/%d/%d",
			len(snap.Clients), len(snap.Sheets), len(snap.Entries))
	}
	want := timesheet.SyncConfig{Method: timesheet.MethodPut}
	if snap.Settings.Sync != want {
		t.Errorf("expected defaulted sync config, got %+v", snap.Settings.Sync)
	}
}

func TestSanitize_NonObjectRoot_Rejected(t *testing.T) {
	for _, raw := range []string{`null`, `"a string"`, `[]`, `42`, ``, `{broken`} {
		_, err := timesheet.Sanitize([]byte(raw))
		if !errors.Is(err, timesheet.ErrMalformedDocument) {
			t.Errorf("Sanitize(%q): expected ErrMalformedDocument, got %v", raw, err)
		}
	}
}

// =============================================================================
// SUB-COLLECTION RECOVERY TESTS
// =============================================================================

func TestSanitize_NonArrayCollections_CoercedEmpty(t *testing.T) {
	snap, err := timesheet.Sanitize([]byte(`{
		"clients": 5,
		"sheets": "nope",
		"entries": {"id": "e1"},
		"settings": []
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Clients) != 0 || len(snap.Sheets) != 0 || len(snap.Entries) != 0 {
		t.Errorf("expected coerced-empty collections, got %d/%d/%d",
			len(snap.Clients), len(snap.Sheets), len(snap.Entries))
	}
	if snap.Settings.Sync.Method != timesheet.MethodPut {
		t.Errorf("expected defaulted method, got %q", snap.Settings.Sync.Method)
	}
}

func TestSanitize_PartialSync_DefaultFilled(t *testing.T) {
	// Only missing fields are filled; present ones survive.
	snap, err := timesheet.Sanitize([]byte(`{
		"settings": {"sync": {"readUrl": "https://example.com/doc", "method": "POST"}}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc := snap.Settings.Sync
	if sc.ReadURL != "https://example.com/doc" || sc.Method != "POST" {
		t.Errorf("configured fields lost: %+v", sc)
	}
	if sc.WriteURL != "" || sc.BearerToken != "" || sc.LastSyncAt != "" {
		t.Errorf("expected empty defaults for missing fields: %+v", sc)
	}
}

// =============================================================================
// RECORD TOLERANCE TESTS
// =============================================================================

func TestSanitize_Records_PassThrough(t *testing.T) {
	snap, err := timesheet.Sanitize([]byte(`{
		"clients": [{"id": "c1", "name": "Acme"}],
		"sheets": [{"id": "s1", "clientId": "c1", "personName": "Ada",
			"periodStart": "2026-08-01", "periodEnd": "2026-08-15"}],
		"entries": [{"id": "e1", "clientId": "c1", "sheetId": "s1",
			"workDate": "2026-08-03", "timeIn": "09:00", "timeOut": "17:30",
			"breakHours": 0.5, "totalHours": 8, "notes": "site visit",
			"createdAt": "2026-08-03T18:00:00Z", "updatedAt": "2026-08-03T18:00:00Z"}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Clients) != 1 || snap.Clients[0].Name != "Acme" {
		t.Errorf("client lost: %+v", snap.Clients)
	}
	if len(snap.Sheets) != 1 || snap.Sheets[0].PeriodEnd != "2026-08-15" {
		t.Errorf("sheet lost: %+v", snap.Sheets)
	}
	if len(snap.Entries) != 1 || snap.Entries[0].TotalHours != 8 {
		t.Errorf("entry lost: %+v", snap.Entries)
	}
}

func TestSanitize_MalformedFields_Coerced(t *testing.T) {
	// GIVEN: Records with stray field types
	// WHEN: Sanitizing
	// THEN: Records are kept, fields coerced (numbers from strings, 0
	//       from junk), never purged

	snap, err := timesheet.Sanitize([]byte(`{
		"clients": [{"id": "c1", "name": 42}, "not an object", 7],
		"entries": [{"id": "e1", "breakHours": "0.5", "totalHours": {"bad": true}}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Clients) != 1 {
		t.Fatalf("expected 1 client (non-objects skipped), got %d", len(snap.Clients))
	}
	if snap.Clients[0].Name != "42" {
		t.Errorf("expected numeric name formatted, got %q", snap.Clients[0].Name)
	}
	if len(snap.Entries) != 1 {
		t.Fatalf("expected malformed entry kept, got %d entries", len(snap.Entries))
	}
	if snap.Entries[0].BreakHours != 0.5 {
		t.Errorf("expected numeric string parsed, got %v", snap.Entries[0].BreakHours)
	}
	if snap.Entries[0].TotalHours != 0 {
		t.Errorf("expected junk number coerced to 0, got %v", snap.Entries[0].TotalHours)
	}
}
