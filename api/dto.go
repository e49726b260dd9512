/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Responses reuse the
  domain record types directly: their JSON tags ARE the canonical document
  shape, and decoupling them here would invite drift from the exchange
  format. Request bodies get their own types so handlers control exactly
  which fields a caller may set (record ids and timestamps are always
  engine-assigned).

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *Response: Response wrappers where a bare record is not enough

SEE ALSO:
  - handlers.go: Uses these types
  - timesheet/types.go: Record and document shapes
*/
package api

import "encoding/json"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateClientRequest creates or renames a client.
type CreateClientRequest struct {
	Name string `json:"name"`
}

// SheetRequest is the body for sheet creation and update.
type SheetRequest struct {
	ClientID    string `json:"clientId"`
	PersonName  string `json:"personName"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

// EntryRequest is the body for entry creation and update. The entry's
// clientId is derived from the owning sheet; totalHours is computed.
type EntryRequest struct {
	SheetID    string  `json:"sheetId"`
	WorkDate   string  `json:"workDate"`
	TimeIn     string  `json:"timeIn"`
	TimeOut    string  `json:"timeOut"`
	BreakHours float64 `json:"breakHours"`
	Notes      string  `json:"notes"`
}

// SyncSettingsRequest updates the sync endpoint configuration.
// lastSyncAt is engine-maintained and cannot be set here.
type SyncSettingsRequest struct {
	ReadURL     string `json:"readUrl"`
	WriteURL    string `json:"writeUrl"`
	Method      string `json:"method"`
	BearerToken string `json:"bearerToken"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// DeleteSheetResponse reports what a sheet deletion removed.
type DeleteSheetResponse struct {
	Deleted        bool `json:"deleted"`
	Cascade        bool `json:"cascade"`
	EntriesRemoved int  `json:"entriesRemoved"`
}

// ImportResponse reports the merged dataset size after an import.
type ImportResponse struct {
	Clients int `json:"clients"`
	Sheets  int `json:"sheets"`
	Entries int `json:"entries"`
}

// SyncResponse reports a completed sync operation.
type SyncResponse struct {
	LastSyncAt string          `json:"lastSyncAt"`
	Clients    int             `json:"clients,omitempty"`
	Sheets     int             `json:"sheets,omitempty"`
	Entries    int             `json:"entries,omitempty"`
	Ack        json.RawMessage `json:"ack,omitempty"`
}
