package client

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

// SnapshotLoader performs the one-shot bootstrap of all three collections.
// The fetches run strictly in sequence (clients, pagers, patients) because
// the views joining patients against the other two assume those are already
// populated by the time the UI first reads patients. The loader fails fast:
// the first failing fetch aborts the sequence and surfaces as one aggregate
// ErrFetchFailed.
type SnapshotLoader struct {
	api   *httpClient
	store *Store
	log   *slog.Logger

	complete atomic.Bool
}

func NewSnapshotLoader(api *httpClient, store *Store, log *slog.Logger) *SnapshotLoader {
	return &SnapshotLoader{
		api:   api,
		store: store,
		log:   log,
	}
}

// Bootstrap fetches and hydrates all three collections in order.
func (l *SnapshotLoader) Bootstrap(ctx context.Context) error {
	l.complete.Store(false)

	clients, err := l.api.GetClients(ctx)
	if err != nil {
		return fmt.Errorf("%w: clients: %v", ErrFetchFailed, err)
	}
	l.store.ReceiveClients(clients)

	pagers, err := l.api.GetPagers(ctx)
	if err != nil {
		return fmt.Errorf("%w: pagers: %v", ErrFetchFailed, err)
	}
	l.store.ReceivePagers(pagers)

	patients, err := l.api.GetPatients(ctx)
	if err != nil {
		return fmt.Errorf("%w: patients: %v", ErrFetchFailed, err)
	}
	l.store.ReceivePatients(patients)

	l.complete.Store(true)
	l.log.Info("snapshot loaded",
		"clients", len(clients),
		"pagers", len(pagers),
		"patients", len(patients),
	)

	return nil
}

// Complete reports whether the last Bootstrap run finished successfully.
// The stream consumer drops every event that arrives while this is false.
func (l *SnapshotLoader) Complete() bool {
	return l.complete.Load()
}
