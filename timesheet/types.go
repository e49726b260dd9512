/*
Package timesheet is the core of the timesheet engine.

PURPOSE:
  This package contains the record schema, the time-arithmetic rules, the
  in-memory record repository, and the reconciliation logic used when two
  independently-edited snapshots of the same dataset are combined (file
  import or remote sync).

KEY CONCEPTS IN THIS FILE (types.go):
  - Client: A billable party. Root entity, no required relationships.
  - Sheet: A client/person-scoped pay period with start/end calendar dates.
  - Entry: One logged work interval attributed to a Client and a Sheet.
  - Settings/SyncConfig: Process-wide configuration for remote sync.
  - Snapshot: The full in-memory dataset at a point in time.
  - Document: The canonical persisted/exchanged JSON shape.

DESIGN PRINCIPLES:
  1. Identity: Record IDs are opaque, globally-unique strings assigned at
     creation and never reused or reassigned.
  2. Denormalization: Entry carries both clientId and sheetId. They must
     agree with the owning Sheet at creation time; the repository does not
     re-validate this on later Sheet edits. Orphaned entries are legal.
  3. Whole snapshots: persistence is a full-snapshot serialization, not an
     incremental log.

SEE ALSO:
  - clock.go: Clock-time parsing and duration arithmetic
  - repository.go: Record CRUD and aggregate queries
  - sanitize.go: Typed parse-and-default of untrusted documents
  - merge.go: Identity-keyed last-writer-wins reconciliation
*/
package timesheet

// =============================================================================
// RECORDS
// =============================================================================

// Client is a billable party.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sheet is a recurring pay period for one client and one person.
// PeriodStart and PeriodEnd are calendar dates in YYYY-MM-DD form with
// PeriodStart <= PeriodEnd. ClientID is a soft reference: the repository
// does not enforce foreign-key integrity.
type Sheet struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId"`
	PersonName  string `json:"personName"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

// Entry is one logged work interval. WorkDate is intended to lie within the
// owning Sheet's period; that is enforced at entry creation/edit time only,
// so an entry may become orphaned (outside its sheet's period, or pointing
// at a deleted sheet) without being auto-corrected or purged.
type Entry struct {
	ID         string  `json:"id"`
	ClientID   string  `json:"clientId"`
	SheetID    string  `json:"sheetId"`
	WorkDate   string  `json:"workDate"`
	TimeIn     string  `json:"timeIn"`
	TimeOut    string  `json:"timeOut"`
	BreakHours float64 `json:"breakHours"`
	TotalHours float64 `json:"totalHours"`
	Notes      string  `json:"notes"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// Sync HTTP methods accepted by SyncConfig.
const (
	MethodPut  = "PUT"
	MethodPost = "POST"
)

// SyncConfig holds the remote sync endpoint configuration.
type SyncConfig struct {
	ReadURL     string `json:"readUrl"`
	WriteURL    string `json:"writeUrl"`
	Method      string `json:"method"`
	BearerToken string `json:"bearerToken"`
	LastSyncAt  string `json:"lastSyncAt"`
}

// Settings is the process-wide configuration record.
type Settings struct {
	Sync SyncConfig `json:"sync"`
}

// =============================================================================
// SNAPSHOT AND DOCUMENT
// =============================================================================

// Snapshot is the full set of Clients, Sheets, Entries and Settings at a
// point in time. It is the unit the merge algorithm operates on.
type Snapshot struct {
	Clients  []Client
	Sheets   []Sheet
	Entries  []Entry
	Settings Settings
}

// NewSnapshot returns an empty snapshot with defaulted settings.
func NewSnapshot() *Snapshot {
	s := &Snapshot{
		Clients: []Client{},
		Sheets:  []Sheet{},
		Entries: []Entry{},
	}
	fillSyncDefaults(&s.Settings.Sync)
	return s
}

// Clone returns a deep copy. Record structs contain no reference types, so
// copying the slices is sufficient.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Clients:  make([]Client, len(s.Clients)),
		Sheets:   make([]Sheet, len(s.Sheets)),
		Entries:  make([]Entry, len(s.Entries)),
		Settings: s.Settings,
	}
	copy(out.Clients, s.Clients)
	copy(out.Sheets, s.Sheets)
	copy(out.Entries, s.Entries)
	return out
}

// Meta is the round-trip identification stamp attached to exports.
type Meta struct {
	ExportedAt string `json:"exportedAt"`
	App        string `json:"app"`
	Version    int    `json:"version"`
}

// Document is the canonical persisted/exchanged JSON shape.
type Document struct {
	Meta     *Meta    `json:"meta,omitempty"`
	Clients  []Client `json:"clients"`
	Sheets   []Sheet  `json:"sheets"`
	Entries  []Entry  `json:"entries"`
	Settings Settings `json:"settings"`
}

// fillSyncDefaults is the shallow default-fill applied by sanitize and merge:
// missing fields get their zero default, method defaults to PUT.
func fillSyncDefaults(sc *SyncConfig) {
	if sc.Method == "" {
		sc.Method = MethodPut
	}
}
