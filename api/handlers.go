/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the record repository and reconciliation engine via REST.
  Handles HTTP request/response and JSON serialization, and delegates to
  the core for everything else.

ENDPOINTS:
  Clients:
    GET    /api/clients                  List all clients
    POST   /api/clients                  Create client
    GET    /api/clients/{id}             Get client
    PUT    /api/clients/{id}             Rename client
    GET    /api/clients/{id}/entries     Ordered entry list
    GET    /api/clients/{id}/sheets/current  Most recent sheet

  Sheets:
    GET    /api/sheets                   List all sheets
    POST   /api/sheets                   Create sheet
    GET    /api/sheets/{id}              Get sheet
    PUT    /api/sheets/{id}              Update sheet
    DELETE /api/sheets/{id}?cascade=     Delete (cascade or sheet-only)
    GET    /api/sheets/{id}/totals       Entry count and hour sum

  Entries:
    GET    /api/entries                  List all entries
    POST   /api/entries                  Create entry (computes total)
    GET    /api/entries/{id}             Get entry
    PUT    /api/entries/{id}             Update entry
    DELETE /api/entries/{id}             Delete entry
    GET    /api/entries/orphaned         Entries with no resolvable sheet

  Settings, exchange and sync:
    GET/PUT /api/settings/sync           Sync endpoint configuration
    GET    /api/export                   Canonical document with meta stamp
    POST   /api/import                   Sanitize + merge + replace
    POST   /api/sync/pull                Remote GET, merge, replace
    POST   /api/sync/push                Export, remote PUT/POST

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed document, invalid dates/times/periods, unconfigured sync
  - 404: Record not found
  - 409: Sync already in flight
  - 502: Transport failure talking to the remote store
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/timesheet-engine/remote"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo   *timesheet.Repository
	Syncer *remote.Syncer

	// Now stamps exported documents. Overridable in tests.
	Now func() time.Time
}

// NewHandler creates a new handler.
func NewHandler(repo *timesheet.Repository, syncer *remote.Syncer) *Handler {
	return &Handler{Repo: repo, Syncer: syncer, Now: time.Now}
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns all clients.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.Clients())
}

// CreateClient creates a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}

	c, err := h.Repo.CreateClient(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetClient returns a single client.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.Repo.Client(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Client not found", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateClient renames a client.
func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}

	c, err := h.Repo.UpdateClient(r.Context(), chi.URLParam(r, "id"), name)
	if err != nil {
		writeError(w, statusFor(err), "Failed to update client", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ClientEntries returns a client's entries in work order.
func (h *Handler) ClientEntries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Repo.Client(id); err != nil {
		writeError(w, statusFor(err), "Client not found", err)
		return
	}
	entries := h.Repo.ClientEntries(id)
	if entries == nil {
		entries = []timesheet.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// CurrentSheet returns the client's most recent sheet by period start.
func (h *Handler) CurrentSheet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Repo.Client(id); err != nil {
		writeError(w, statusFor(err), "Client not found", err)
		return
	}
	sheet := h.Repo.CurrentSheetForClient(id)
	if sheet == nil {
		writeError(w, http.StatusNotFound, "Client has no sheets", nil)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

// =============================================================================
// SHEET HANDLERS
// =============================================================================

// ListSheets returns all sheets.
func (h *Handler) ListSheets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.Sheets())
}

// CreateSheet creates a new sheet.
func (h *Handler) CreateSheet(w http.ResponseWriter, r *http.Request) {
	var req SheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Repo.CreateSheet(r.Context(), timesheet.SheetInput{
		ClientID:    req.ClientID,
		PersonName:  req.PersonName,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to create sheet", err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// GetSheet returns a single sheet.
func (h *Handler) GetSheet(w http.ResponseWriter, r *http.Request) {
	s, err := h.Repo.Sheet(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Sheet not found", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSheet replaces a sheet's fields. Entries are not re-validated
// against the new period.
func (h *Handler) UpdateSheet(w http.ResponseWriter, r *http.Request) {
	var req SheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := h.Repo.UpdateSheet(r.Context(), chi.URLParam(r, "id"), timesheet.SheetInput{
		ClientID:    req.ClientID,
		PersonName:  req.PersonName,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to update sheet", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// DeleteSheet deletes a sheet. ?cascade=true removes its entries as well;
// otherwise they are left behind with a dangling sheetId.
func (h *Handler) DeleteSheet(w http.ResponseWriter, r *http.Request) {
	cascade := r.URL.Query().Get("cascade") == "true"

	removed, err := h.Repo.DeleteSheet(r.Context(), chi.URLParam(r, "id"), cascade)
	if err != nil {
		writeError(w, statusFor(err), "Failed to delete sheet", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteSheetResponse{
		Deleted:        true,
		Cascade:        cascade,
		EntriesRemoved: removed,
	})
}

// SheetTotals returns the entry count and rounded hour sum for a sheet.
func (h *Handler) SheetTotals(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Repo.Sheet(id); err != nil {
		writeError(w, statusFor(err), "Sheet not found", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Repo.SheetTotals(id))
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns all entries.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.Entries())
}

// CreateEntry logs a work interval against a sheet.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Repo.CreateEntry(r.Context(), entryInput(req))
	if err != nil {
		writeError(w, statusFor(err), "Failed to create entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// GetEntry returns a single entry.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Repo.Entry(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), "Entry not found", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateEntry replaces an entry, recomputing its total.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := h.Repo.UpdateEntry(r.Context(), chi.URLParam(r, "id"), entryInput(req))
	if err != nil {
		writeError(w, statusFor(err), "Failed to update entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEntry removes an entry.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), "Failed to delete entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// OrphanedEntries returns entries whose sheet no longer resolves.
func (h *Handler) OrphanedEntries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.OrphanedEntries())
}

func entryInput(req EntryRequest) timesheet.EntryInput {
	return timesheet.EntryInput{
		SheetID:    req.SheetID,
		WorkDate:   req.WorkDate,
		TimeIn:     req.TimeIn,
		TimeOut:    req.TimeOut,
		BreakHours: req.BreakHours,
		Notes:      req.Notes,
	}
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSyncSettings returns the sync endpoint configuration.
func (h *Handler) GetSyncSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Repo.SyncSettings())
}

// UpdateSyncSettings replaces the sync endpoint configuration.
func (h *Handler) UpdateSyncSettings(w http.ResponseWriter, r *http.Request) {
	var req SyncSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	sc, err := h.Repo.UpdateSyncSettings(r.Context(), timesheet.SyncConfig{
		ReadURL:     req.ReadURL,
		WriteURL:    req.WriteURL,
		Method:      req.Method,
		BearerToken: req.BearerToken,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update settings", err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

// =============================================================================
// EXCHANGE HANDLERS - export, import, sync
// =============================================================================

// ExportDocument returns the full snapshot as the canonical document with
// a meta stamp.
func (h *Handler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	doc := timesheet.Export(h.Repo.Snapshot(), h.Now())
	writeJSON(w, http.StatusOK, doc)
}

// ImportDocument sanitizes the posted document, merges it over the current
// snapshot with the imported side authoritative per-id, and replaces the
// repository snapshot.
func (h *Handler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	incoming, err := timesheet.Sanitize(raw)
	if err != nil {
		writeError(w, statusFor(err), "Document rejected", err)
		return
	}

	merged := timesheet.Merge(h.Repo.Snapshot(), incoming)
	if err := h.Repo.ReplaceSnapshot(r.Context(), merged); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to persist merged snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Clients: len(merged.Clients),
		Sheets:  len(merged.Sheets),
		Entries: len(merged.Entries),
	})
}

// SyncPull fetches the remote snapshot and merges it locally.
func (h *Handler) SyncPull(w http.ResponseWriter, r *http.Request) {
	merged, err := h.Syncer.Pull(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Pull failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{
		LastSyncAt: h.Repo.SyncSettings().LastSyncAt,
		Clients:    len(merged.Clients),
		Sheets:     len(merged.Sheets),
		Entries:    len(merged.Entries),
	})
}

// SyncPush exports the local snapshot to the remote store.
func (h *Handler) SyncPush(w http.ResponseWriter, r *http.Request) {
	ack, err := h.Syncer.Push(r.Context())
	if err != nil {
		writeError(w, statusFor(err), "Push failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SyncResponse{
		LastSyncAt: h.Repo.SyncSettings().LastSyncAt,
		Ack:        ack,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// statusFor maps core error classes to HTTP statuses.
func statusFor(err error) int {
	switch {
	case timesheet.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, timesheet.ErrSyncInFlight):
		return http.StatusConflict
	case errors.Is(err, timesheet.ErrTransportFailure):
		return http.StatusBadGateway
	case errors.Is(err, remote.ErrNotConfigured):
		return http.StatusBadRequest
	case timesheet.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
