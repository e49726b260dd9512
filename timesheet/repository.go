/*
repository.go - Record repository and aggregate queries

PURPOSE:
  The Repository owns the four record collections (Clients, Sheets,
  Entries, Settings) for the lifetime of the process. It is constructed
  from the persisted blob at startup and writes the full snapshot back
  through after every mutation; there is no dirty or uncommitted state.

MUTATION CONTRACT:
  - Create/update/delete are identity-keyed. Updates replace the record
    whose id matches; deletes remove by id. Each mutation is atomic with
    respect to a single record and runs to completion before any other
    operation observes the snapshot.
  - Sheet deletion is caller-selected between cascade (remove the sheet
    and all entries whose sheetId matches) and sheet-only (leave entries
    with a dangling sheetId). Both are legal terminal states.
  - Client deletion is not exposed.

REFERENTIAL INTEGRITY:
  Soft references only. Entry.ClientID is taken from the owning sheet at
  creation/edit time; the repository never re-validates it on later sheet
  edits, so entries can become orphaned. OrphanedEntries surfaces them as
  a diagnostic; nothing auto-repairs them.

SEE ALSO:
  - types.go: Record schema
  - sanitize.go: How the persisted blob is loaded
  - store/memory.go, store/sqlite: BlobStore implementations
*/
package timesheet

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BLOB STORE - Durable slot holding one serialized snapshot
// =============================================================================

// BlobStore is the persistence contract: a durable key-value slot holding
// one JSON document. Load returns (nil, nil) when the slot is empty.
type BlobStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// =============================================================================
// REPOSITORY
// =============================================================================

// Repository is the in-memory record store with write-through persistence.
type Repository struct {
	mu   sync.RWMutex
	blob BlobStore
	snap *Snapshot

	now   func() time.Time
	newID func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the wall clock used for createdAt/updatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

// Open constructs a Repository from the persisted blob. An empty slot
// seeds an empty snapshot; a non-empty slot is loaded through Sanitize,
// so a corrupted blob surfaces ErrMalformedDocument.
func Open(ctx context.Context, blob BlobStore, opts ...Option) (*Repository, error) {
	r := &Repository{
		blob:  blob,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	raw, err := blob.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		r.snap = NewSnapshot()
		return r, nil
	}
	snap, err := Sanitize(raw)
	if err != nil {
		return nil, err
	}
	r.snap = snap
	return r, nil
}

// Flush writes the current snapshot through to the blob store. Mutations
// already write through; this exists for teardown.
func (r *Repository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persist(ctx)
}

// persist serializes the full snapshot and saves it. Callers hold the lock.
func (r *Repository) persist(ctx context.Context) error {
	raw, err := json.Marshal(DocumentOf(r.snap))
	if err != nil {
		return err
	}
	return r.blob.Save(ctx, raw)
}

// =============================================================================
// CLIENTS
// =============================================================================

// CreateClient adds a client with a freshly assigned id.
func (r *Repository) CreateClient(ctx context.Context, name string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Client{ID: r.newID(), Name: name}
	r.snap.Clients = append(r.snap.Clients, c)
	return c, r.persist(ctx)
}

// UpdateClient replaces the client whose id matches.
func (r *Repository) UpdateClient(ctx context.Context, id, name string) (Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.snap.Clients {
		if c.ID == id {
			r.snap.Clients[i].Name = name
			return r.snap.Clients[i], r.persist(ctx)
		}
	}
	return Client{}, ErrClientNotFound
}

// Clients returns all clients in insertion order.
func (r *Repository) Clients() []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Client, len(r.snap.Clients))
	copy(out, r.snap.Clients)
	return out
}

// Client returns the client with the given id.
func (r *Repository) Client(id string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.snap.Clients {
		if c.ID == id {
			return c, nil
		}
	}
	return Client{}, ErrClientNotFound
}

// =============================================================================
// SHEETS
// =============================================================================

// SheetInput carries the caller-supplied sheet fields.
type SheetInput struct {
	ClientID    string
	PersonName  string
	PeriodStart string
	PeriodEnd   string
}

func (in SheetInput) validate() error {
	if !ValidDate(in.PeriodStart) || !ValidDate(in.PeriodEnd) {
		return ErrInvalidDate
	}
	if in.PeriodStart > in.PeriodEnd {
		return ErrInvalidPeriod
	}
	return nil
}

// CreateSheet adds a sheet. The period bounds must be well-formed with
// start <= end. ClientID is a soft reference and is not resolved.
func (r *Repository) CreateSheet(ctx context.Context, in SheetInput) (Sheet, error) {
	if err := in.validate(); err != nil {
		return Sheet{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s := Sheet{
		ID:          r.newID(),
		ClientID:    in.ClientID,
		PersonName:  in.PersonName,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
	}
	r.snap.Sheets = append(r.snap.Sheets, s)
	return s, r.persist(ctx)
}

// UpdateSheet replaces the sheet whose id matches. Existing entries are
// never re-validated against the new period; entries falling outside it
// become orphans by design.
func (r *Repository) UpdateSheet(ctx context.Context, id string, in SheetInput) (Sheet, error) {
	if err := in.validate(); err != nil {
		return Sheet{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.snap.Sheets {
		if s.ID == id {
			r.snap.Sheets[i] = Sheet{
				ID:          id,
				ClientID:    in.ClientID,
				PersonName:  in.PersonName,
				PeriodStart: in.PeriodStart,
				PeriodEnd:   in.PeriodEnd,
			}
			return r.snap.Sheets[i], r.persist(ctx)
		}
	}
	return Sheet{}, ErrSheetNotFound
}

// DeleteSheet removes the sheet by id. With cascade=true every entry whose
// sheetId matches is removed as well; with cascade=false the entries stay
// behind with a dangling sheetId. Returns the number of entries removed.
func (r *Repository) DeleteSheet(ctx context.Context, id string, cascade bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, s := range r.snap.Sheets {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrSheetNotFound
	}
	r.snap.Sheets = append(r.snap.Sheets[:idx], r.snap.Sheets[idx+1:]...)

	removed := 0
	if cascade {
		kept := r.snap.Entries[:0]
		for _, e := range r.snap.Entries {
			if e.SheetID == id {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		r.snap.Entries = kept
	}
	return removed, r.persist(ctx)
}

// Sheets returns all sheets in insertion order.
func (r *Repository) Sheets() []Sheet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sheet, len(r.snap.Sheets))
	copy(out, r.snap.Sheets)
	return out
}

// Sheet returns the sheet with the given id.
func (r *Repository) Sheet(id string) (Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sheetLocked(id)
	if !ok {
		return Sheet{}, ErrSheetNotFound
	}
	return s, nil
}

func (r *Repository) sheetLocked(id string) (Sheet, bool) {
	for _, s := range r.snap.Sheets {
		if s.ID == id {
			return s, true
		}
	}
	return Sheet{}, false
}

// CurrentSheetForClient picks the client's sheet with the greatest
// periodStart (most recent by ISO-date ordering). On ties the earlier
// record wins. Returns nil when the client has no sheets.
func (r *Repository) CurrentSheetForClient(clientID string) *Sheet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Sheet
	for i := range r.snap.Sheets {
		s := r.snap.Sheets[i]
		if s.ClientID != clientID {
			continue
		}
		if best == nil || s.PeriodStart > best.PeriodStart {
			c := s
			best = &c
		}
	}
	return best
}

// =============================================================================
// ENTRIES
// =============================================================================

// EntryInput carries the caller-supplied entry fields. ClientID is derived
// from the owning sheet, never supplied directly.
type EntryInput struct {
	SheetID    string
	WorkDate   string
	TimeIn     string
	TimeOut    string
	BreakHours float64
	Notes      string
}

// buildEntry runs the producing-workflow validation: the sheet must exist,
// the work date must be well-formed and inside the sheet's period, and both
// clock times must parse. Callers hold the lock.
func (r *Repository) buildEntry(in EntryInput) (Entry, error) {
	sheet, ok := r.sheetLocked(in.SheetID)
	if !ok {
		return Entry{}, ErrSheetNotFound
	}
	if !ValidDate(in.WorkDate) {
		return Entry{}, ErrInvalidDate
	}
	if !inPeriod(in.WorkDate, sheet.PeriodStart, sheet.PeriodEnd) {
		return Entry{}, ErrWorkDateOutsidePeriod
	}
	total, ok := TotalHours(in.TimeIn, in.TimeOut, in.BreakHours)
	if !ok {
		return Entry{}, ErrInvalidClockTime
	}
	return Entry{
		ClientID:   sheet.ClientID,
		SheetID:    sheet.ID,
		WorkDate:   in.WorkDate,
		TimeIn:     in.TimeIn,
		TimeOut:    in.TimeOut,
		BreakHours: in.BreakHours,
		TotalHours: total,
		Notes:      in.Notes,
	}, nil
}

// CreateEntry adds an entry with a computed total and creation stamps.
func (r *Repository) CreateEntry(ctx context.Context, in EntryInput) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.buildEntry(in)
	if err != nil {
		return Entry{}, err
	}
	now := r.now().UTC().Format(time.RFC3339)
	e.ID = r.newID()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.snap.Entries = append(r.snap.Entries, e)
	return e, r.persist(ctx)
}

// UpdateEntry replaces the entry whose id matches, re-running the same
// validation as creation and recomputing the total. CreatedAt survives,
// UpdatedAt is refreshed.
func (r *Repository) UpdateEntry(ctx context.Context, id string, in EntryInput) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.snap.Entries {
		if existing.ID != id {
			continue
		}
		e, err := r.buildEntry(in)
		if err != nil {
			return Entry{}, err
		}
		e.ID = id
		e.CreatedAt = existing.CreatedAt
		e.UpdatedAt = r.now().UTC().Format(time.RFC3339)
		r.snap.Entries[i] = e
		return e, r.persist(ctx)
	}
	return Entry{}, ErrEntryNotFound
}

// DeleteEntry removes the entry by id.
func (r *Repository) DeleteEntry(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.snap.Entries {
		if e.ID == id {
			r.snap.Entries = append(r.snap.Entries[:i], r.snap.Entries[i+1:]...)
			return r.persist(ctx)
		}
	}
	return ErrEntryNotFound
}

// Entries returns all entries in insertion order.
func (r *Repository) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.snap.Entries))
	copy(out, r.snap.Entries)
	return out
}

// Entry returns the entry with the given id.
func (r *Repository) Entry(id string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.snap.Entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, ErrEntryNotFound
}

// ClientEntries returns a client's entries sorted ascending by
// (workDate, timeIn, timeOut, createdAt). Each key is compared
// lexicographically, which matches temporal order for ISO dates and
// times; ties fall through to the next key.
func (r *Repository) ClientEntries(clientID string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Entry
	for _, e := range r.snap.Entries {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WorkDate != b.WorkDate {
			return a.WorkDate < b.WorkDate
		}
		if a.TimeIn != b.TimeIn {
			return a.TimeIn < b.TimeIn
		}
		if a.TimeOut != b.TimeOut {
			return a.TimeOut < b.TimeOut
		}
		return a.CreatedAt < b.CreatedAt
	})
	return out
}

// OrphanedEntries returns entries whose sheetId no longer resolves to a
// sheet. Diagnostic only: the repository never purges or repairs them.
func (r *Repository) OrphanedEntries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sheetIDs := make(map[string]bool, len(r.snap.Sheets))
	for _, s := range r.snap.Sheets {
		sheetIDs[s.ID] = true
	}
	out := []Entry{}
	for _, e := range r.snap.Entries {
		if !sheetIDs[e.SheetID] {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// AGGREGATES
// =============================================================================

// Totals is the aggregate over one sheet's entries.
type Totals struct {
	Count    int     `json:"count"`
	SumHours float64 `json:"sumHours"`
}

// SheetTotals counts a sheet's entries and sums their totalHours, rounding
// the sum to 2 digits.
func (r *Repository) SheetTotals(sheetID string) Totals {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := decimal.Zero
	count := 0
	for _, e := range r.snap.Entries {
		if e.SheetID != sheetID {
			continue
		}
		count++
		sum = sum.Add(decimal.NewFromFloat(e.TotalHours))
	}
	f, _ := sum.Round(2).Float64()
	return Totals{Count: count, SumHours: f}
}

// =============================================================================
// SETTINGS AND SNAPSHOT EXCHANGE
// =============================================================================

// SyncSettings returns the current sync configuration.
func (r *Repository) SyncSettings() SyncConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.Settings.Sync
}

// UpdateSyncSettings replaces the endpoint configuration. LastSyncAt is an
// engine-maintained stamp and survives unchanged.
func (r *Repository) UpdateSyncSettings(ctx context.Context, sc SyncConfig) (SyncConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sc.LastSyncAt = r.snap.Settings.Sync.LastSyncAt
	fillSyncDefaults(&sc)
	r.snap.Settings.Sync = sc
	return sc, r.persist(ctx)
}

// SetLastSyncAt stamps the completion time of a successful sync.
func (r *Repository) SetLastSyncAt(ctx context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap.Settings.Sync.LastSyncAt = at.UTC().Format(time.RFC3339)
	return r.persist(ctx)
}

// Snapshot returns a deep copy of the current snapshot.
func (r *Repository) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap.Clone()
}

// ReplaceSnapshot swaps in a new snapshot wholesale and persists it. This
// is the tail of the import/sync path, after Sanitize and Merge have run.
func (r *Repository) ReplaceSnapshot(ctx context.Context, snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap = snap.Clone()
	fillSyncDefaults(&r.snap.Settings.Sync)
	return r.persist(ctx)
}
