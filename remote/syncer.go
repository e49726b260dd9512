package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// SYNCER - Guarded pull/push orchestration
// =============================================================================

// Syncer coordinates the gateway and the repository. A single-slot
// in-flight guard serializes sync operations: a second pull or push while
// one is outstanding is rejected with ErrSyncInFlight rather than racing
// to completion against the shared snapshot.
type Syncer struct {
	Log     *slog.Logger
	Gateway *Gateway
	Repo    *timesheet.Repository

	// Now is the completion-time source for the lastSyncAt stamp.
	// Defaults to time.Now.
	Now func() time.Time

	busy atomic.Bool
}

// Pull fetches the remote snapshot, merges it over the local one with the
// remote side authoritative per-id, replaces the repository snapshot, and
// stamps lastSyncAt. On any failure local state is unchanged and the
// stamp is not updated.
func (s *Syncer) Pull(ctx context.Context) (*timesheet.Snapshot, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, timesheet.ErrSyncInFlight
	}
	defer s.busy.Store(false)

	cfg := s.Repo.SyncSettings()
	incoming, err := s.Gateway.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}

	merged := timesheet.Merge(s.Repo.Snapshot(), incoming)
	if err := s.Repo.ReplaceSnapshot(ctx, merged); err != nil {
		return nil, err
	}
	if err := s.Repo.SetLastSyncAt(ctx, s.now()); err != nil {
		return nil, err
	}
	s.Log.Info("pull completed",
		slog.Int("clients", len(merged.Clients)),
		slog.Int("sheets", len(merged.Sheets)),
		slog.Int("entries", len(merged.Entries)))
	return merged, nil
}

// Push exports the local snapshot and saves it to the write endpoint,
// stamping lastSyncAt on success. The optional acknowledgement body from
// the remote is passed through untouched.
func (s *Syncer) Push(ctx context.Context) (json.RawMessage, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, timesheet.ErrSyncInFlight
	}
	defer s.busy.Store(false)

	cfg := s.Repo.SyncSettings()
	doc := timesheet.Export(s.Repo.Snapshot(), s.now())
	ack, err := s.Gateway.Save(ctx, cfg, doc)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetLastSyncAt(ctx, s.now()); err != nil {
		return nil, err
	}
	s.Log.Info("push completed")
	return ack, nil
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
