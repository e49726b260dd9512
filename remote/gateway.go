// Package remote implements the sync gateway: the HTTP collaborator that
// produces and consumes snapshot documents for the reconciliation engine.
// Merging always happens locally; the remote store is a dumb document slot.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/warp/timesheet-engine/timesheet"
)

// ErrNotConfigured is returned when a sync is attempted without the
// corresponding endpoint URL set.
var ErrNotConfigured = errors.New("sync endpoint not configured")

// Gateway performs the network GET/PUT/POST against the configured
// endpoints. It holds no snapshot state of its own.
type Gateway struct {
	http *http.Client
	log  *slog.Logger
}

func NewGateway(log *slog.Logger) *Gateway {
	return &Gateway{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Load fetches the remote document and sanitizes it into a snapshot.
// Any non-2xx status or network error is a TransportFailure; the body of
// a 2xx response goes through the same Sanitize path as a file import.
func (g *Gateway) Load(ctx context.Context, cfg timesheet.SyncConfig) (*timesheet.Snapshot, error) {
	if cfg.ReadURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ReadURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.BearerToken)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, &timesheet.TransportError{URL: cfg.ReadURL, Body: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &timesheet.TransportError{URL: cfg.ReadURL, Status: resp.StatusCode, Body: string(body)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &timesheet.TransportError{URL: cfg.ReadURL, Body: err.Error()}
	}
	snap, err := timesheet.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	g.log.Info("fetched remote snapshot",
		slog.Int("clients", len(snap.Clients)),
		slog.Int("sheets", len(snap.Sheets)),
		slog.Int("entries", len(snap.Entries)))
	return snap, nil
}

// Save pushes the document to the write endpoint using the configured
// method (PUT or POST). A non-2xx status is a TransportFailure. The
// response body is returned as an acknowledgement when it is valid JSON;
// an empty or non-JSON body means "no acknowledgement", not an error.
func (g *Gateway) Save(ctx context.Context, cfg timesheet.SyncConfig, doc *timesheet.Document) (json.RawMessage, error) {
	if cfg.WriteURL == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	method := cfg.Method
	if method == "" {
		method = timesheet.MethodPut
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.WriteURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.BearerToken)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, &timesheet.TransportError{URL: cfg.WriteURL, Body: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &timesheet.TransportError{URL: cfg.WriteURL, Status: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 || !json.Valid(body) {
		g.log.Info("pushed snapshot", slog.String("method", method), slog.Bool("ack", false))
		return nil, nil
	}
	g.log.Info("pushed snapshot", slog.String("method", method), slog.Bool("ack", true))
	return json.RawMessage(body), nil
}
