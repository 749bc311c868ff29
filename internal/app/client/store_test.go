package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"pagient/internal/domain/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	settings, err := NewSettingsStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { settings.Close() })

	return NewStore(settings, slog.Default())
}

func TestStoreReceiveBatchFirstWriteWins(t *testing.T) {
	store := newTestStore(t)

	store.ReceiveClients([]entity.Client{{ID: 1, Name: "Ward A"}})
	store.ReceiveClients([]entity.Client{
		{ID: 1, Name: "Renamed"},
		{ID: 2, Name: "Ward B"},
	})

	clients := store.Clients()
	require.Len(t, clients, 2)
	assert.Equal(t, "Ward A", clients[0].Name, "second batch must not overwrite a known id")
	assert.Equal(t, "Ward B", clients[1].Name)
}

func TestStoreReceivePatientsFirstWriteWins(t *testing.T) {
	store := newTestStore(t)

	store.ReceivePatients([]entity.Patient{{ID: 7, Name: "Doe", Status: entity.StatusPending}})
	store.ReceivePatients([]entity.Patient{{ID: 7, Name: "Changed", Status: entity.StatusCall}})

	p := store.Patient(7)
	require.NotNil(t, p)
	assert.Equal(t, "Doe", p.Name)
	assert.Equal(t, entity.StatusPending, p.Status)
}

func TestStoreUpsertPatientReplaces(t *testing.T) {
	store := newTestStore(t)

	store.UpsertPatient(entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", PagerID: 3, Status: entity.StatusPending})
	store.UpsertPatient(entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", Status: entity.StatusCall})

	p := store.Patient(1)
	require.NotNil(t, p)
	assert.Equal(t, entity.StatusCall, p.Status)
	assert.Zero(t, p.PagerID, "upsert is a full replace, not a merge")
}

func TestStoreDeletePatient(t *testing.T) {
	store := newTestStore(t)

	store.UpsertPatient(entity.Patient{ID: 1, Name: "Doe"})
	store.DeletePatient(1)
	assert.Nil(t, store.Patient(1))

	// deleting an absent id is a no-op
	store.DeletePatient(42)
	assert.Empty(t, store.Patients())
}

func TestStoreActiveClientSwitch(t *testing.T) {
	tests := []struct {
		name     string
		before   *entity.Patient
		update   entity.Patient
		expected uint
	}{
		{
			name:     "new patient switches",
			update:   entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 5},
			expected: 5,
		},
		{
			name:     "name change switches",
			before:   &entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 5},
			update:   entity.Patient{ID: 1, Name: "Roe", SSN: "0123456789", ClientID: 5},
			expected: 5,
		},
		{
			name:     "ssn change switches",
			before:   &entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 5},
			update:   entity.Patient{ID: 1, Name: "Doe", SSN: "9876543210", ClientID: 5},
			expected: 5,
		},
		{
			name:     "client change switches",
			before:   &entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 5},
			update:   entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 6},
			expected: 6,
		},
		{
			name:     "pure status change does not switch",
			before:   &entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 5},
			update:   entity.Patient{ID: 1, Name: "Doe", SSN: "0123456789", ClientID: 5, Status: entity.StatusCall, Active: true},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.before != nil {
				store.ReceivePatients([]entity.Patient{*tt.before})
			}

			store.UpsertPatient(tt.update)
			assert.Equal(t, tt.expected, store.ActiveClientID())
		})
	}
}

func TestStoreSelectClientPersists(t *testing.T) {
	settings, err := NewSettingsStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer settings.Close()

	store := NewStore(settings, slog.Default())
	store.SelectClient(9)
	assert.Equal(t, uint(9), store.ActiveClientID())

	// a fresh store over the same settings picks the pointer back up
	restored := NewStore(settings, slog.Default())
	assert.Equal(t, uint(9), restored.ActiveClientID())
}

func TestStoreNotifiesObservers(t *testing.T) {
	store := newTestStore(t)

	var calls int
	store.Subscribe(func() { calls++ })

	store.ReceiveClients([]entity.Client{{ID: 1, Name: "Ward A"}})
	store.UpsertPatient(entity.Patient{ID: 1, Name: "Doe"})
	store.DeletePatient(1)
	store.DeletePatient(1) // absent, no notification

	assert.Equal(t, 3, calls)
}
