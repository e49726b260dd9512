/*
sanitize.go - Typed parse-and-default of untrusted snapshot documents

PURPOSE:
  Turns a raw JSON payload (file import, remote sync response, persisted
  blob) into a well-shaped Snapshot. Only a non-object root is fatal;
  everything below it is recovered with defaults:

  - clients/sheets/entries that are not arrays become empty arrays
  - settings that is not an object becomes {} and settings.sync is
    default-filled (empty URLs and token, method PUT, empty lastSyncAt)

INDIVIDUAL RECORDS:
  Record-level validation is deliberately shallow. Each record is decoded
  tolerantly rather than strictly: string fields keep strings and format
  stray numbers/booleans, numeric fields coerce non-numeric values to 0,
  unknown fields are dropped. A malformed record is kept, never purged,
  which mirrors the pass-through behavior of the document format. Array
  elements that are not objects at all are skipped.

SEE ALSO:
  - merge.go: Consumes sanitized snapshots
  - repository.go: Loads the persisted blob through Sanitize
*/
package timesheet

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Sanitize validates and normalizes an untrusted JSON document into a
// Snapshot. It fails only when the root is not a JSON object; every missing
// or malformed sub-collection is recovered with defaults.
func Sanitize(raw []byte) (*Snapshot, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if root == nil {
		// JSON null decodes into a nil map without error.
		return nil, ErrMalformedDocument
	}

	snap := &Snapshot{
		Clients:  sanitizeClients(root["clients"]),
		Sheets:   sanitizeSheets(root["sheets"]),
		Entries:  sanitizeEntries(root["entries"]),
		Settings: sanitizeSettings(root["settings"]),
	}
	return snap, nil
}

// =============================================================================
// COLLECTIONS
// =============================================================================

func sanitizeClients(raw json.RawMessage) []Client {
	out := []Client{}
	for _, el := range elements(raw) {
		var rc rawClient
		if err := json.Unmarshal(el, &rc); err != nil {
			continue
		}
		out = append(out, Client{
			ID:   string(rc.ID),
			Name: string(rc.Name),
		})
	}
	return out
}

func sanitizeSheets(raw json.RawMessage) []Sheet {
	out := []Sheet{}
	for _, el := range elements(raw) {
		var rs rawSheet
		if err := json.Unmarshal(el, &rs); err != nil {
			continue
		}
		out = append(out, Sheet{
			ID:          string(rs.ID),
			ClientID:    string(rs.ClientID),
			PersonName:  string(rs.PersonName),
			PeriodStart: string(rs.PeriodStart),
			PeriodEnd:   string(rs.PeriodEnd),
		})
	}
	return out
}

func sanitizeEntries(raw json.RawMessage) []Entry {
	out := []Entry{}
	for _, el := range elements(raw) {
		var re rawEntry
		if err := json.Unmarshal(el, &re); err != nil {
			continue
		}
		out = append(out, Entry{
			ID:         string(re.ID),
			ClientID:   string(re.ClientID),
			SheetID:    string(re.SheetID),
			WorkDate:   string(re.WorkDate),
			TimeIn:     string(re.TimeIn),
			TimeOut:    string(re.TimeOut),
			BreakHours: float64(re.BreakHours),
			TotalHours: float64(re.TotalHours),
			Notes:      string(re.Notes),
			CreatedAt:  string(re.CreatedAt),
			UpdatedAt:  string(re.UpdatedAt),
		})
	}
	return out
}

func sanitizeSettings(raw json.RawMessage) Settings {
	var s Settings
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err == nil && m != nil {
		var rs rawSyncConfig
		if err := json.Unmarshal(m["sync"], &rs); err == nil {
			s.Sync = SyncConfig{
				ReadURL:     string(rs.ReadURL),
				WriteURL:    string(rs.WriteURL),
				Method:      string(rs.Method),
				BearerToken: string(rs.BearerToken),
				LastSyncAt:  string(rs.LastSyncAt),
			}
		}
	}
	fillSyncDefaults(&s.Sync)
	return s
}

// elements decodes raw as a JSON array of raw values. A missing or
// non-array value yields nil, which downstream treats as an empty
// collection.
func elements(raw json.RawMessage) []json.RawMessage {
	var els []json.RawMessage
	if err := json.Unmarshal(raw, &els); err != nil {
		return nil
	}
	return els
}

// =============================================================================
// LOOSE SCALARS
// =============================================================================
// Tolerant field decoding: these never return an error, so a stray value in
// one field cannot reject the whole record.

// looseString keeps JSON strings as-is, formats numbers and booleans, and
// turns anything else into "".
type looseString string

func (ls *looseString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*ls = looseString(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*ls = looseString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*ls = looseString(strconv.FormatBool(v))
		return nil
	}
	*ls = ""
	return nil
}

// looseNumber keeps JSON numbers, parses numeric strings, and coerces
// everything else to 0.
type looseNumber float64

func (ln *looseNumber) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*ln = looseNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, perr := strconv.ParseFloat(s, 64); perr == nil {
			*ln = looseNumber(parsed)
			return nil
		}
	}
	*ln = 0
	return nil
}

// =============================================================================
// RAW RECORD MIRRORS
// =============================================================================

type rawClient struct {
	ID   looseString `json:"id"`
	Name looseString `json:"name"`
}

type rawSheet struct {
	ID          looseString `json:"id"`
	ClientID    looseString `json:"clientId"`
	PersonName  looseString `json:"personName"`
	PeriodStart looseString `json:"periodStart"`
	PeriodEnd   looseString `json:"periodEnd"`
}

type rawEntry struct {
	ID         looseString `json:"id"`
	ClientID   looseString `json:"clientId"`
	SheetID    looseString `json:"sheetId"`
	WorkDate   looseString `json:"workDate"`
	TimeIn     looseString `json:"timeIn"`
	TimeOut    looseString `json:"timeOut"`
	BreakHours looseNumber `json:"breakHours"`
	TotalHours looseNumber `json:"totalHours"`
	Notes      looseString `json:"notes"`
	CreatedAt  looseString `json:"createdAt"`
	UpdatedAt  looseString `json:"updatedAt"`
}

type rawSyncConfig struct {
	ReadURL     looseString `json:"readUrl"`
	WriteURL    looseString `json:"writeUrl"`
	Method      looseString `json:"method"`
	BearerToken looseString `json:"bearerToken"`
	LastSyncAt  looseString `json:"lastSyncAt"`
}
