package client

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"pagient/internal/domain/entity"
)

type backendRecorder struct {
	mu      sync.Mutex
	updates []entity.Patient
	deletes []string

	failUpdate bool
	failDelete bool
}

func (b *backendRecorder) register(r chi.Router) {
	r.Post("/api/patients/{id}", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.failUpdate {
			http.Error(w, `{"error":"update refused"}`, http.StatusBadRequest)
			return
		}

		var patient entity.Patient
		if err := jsonDecode(req, &patient); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.updates = append(b.updates, patient)
		w.WriteHeader(http.StatusOK)
	})

	r.Delete("/api/patients/{id}", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		if b.failDelete {
			http.Error(w, `{"error":"delete refused"}`, http.StatusInternalServerError)
			return
		}
		b.deletes = append(b.deletes, chi.URLParam(req, "id"))
		w.WriteHeader(http.StatusOK)
	})
}

func newTestActions(t *testing.T, backend *backendRecorder) *Actions {
	t.Helper()

	srv := newFakeBackend(t, backend.register)
	api, session := newTestHTTPClient(t, srv)
	seedToken(t, session, "tok")

	return NewActions(api, slog.Default())
}

func TestActionsCallPatient(t *testing.T) {
	backend := &backendRecorder{}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{
		ID:       7,
		Name:     "Doe John",
		PagerID:  2,
		ClientID: 1,
		Status:   entity.StatusPending,
		Active:   true,
	}

	require.NoError(t, actions.CallPatient(context.Background(), patient))

	require.Len(t, backend.updates, 1)
	assert.Equal(t, entity.StatusCall, backend.updates[0].Status)
	assert.Equal(t, uint(7), backend.updates[0].ID)

	assert.Equal(t, entity.StatusPending, patient.Status,
		"the caller's record is untouched until the stream confirms")
}

func TestActionsCallPatientRejected(t *testing.T) {
	backend := &backendRecorder{failUpdate: true}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{ID: 7, Name: "Doe John", Status: entity.StatusPending, Active: true}

	err := actions.CallPatient(context.Background(), patient)
	assert.ErrorIs(t, err, ErrUpdateRejected)
	assert.Equal(t, entity.StatusPending, patient.Status)
}

func TestActionsAssignPager(t *testing.T) {
	backend := &backendRecorder{}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{ID: 7, Name: "Doe John", ClientID: 1, Status: entity.StatusPending, Active: true}

	require.NoError(t, actions.AssignPager(context.Background(), patient, 3))

	require.Len(t, backend.updates, 1)
	assert.Equal(t, uint(3), backend.updates[0].PagerID)
	assert.Empty(t, backend.deletes)
	assert.Zero(t, patient.PagerID)
}

func TestActionsUnassignInactivePatientDeletes(t *testing.T) {
	backend := &backendRecorder{}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{ID: 7, Name: "Doe John", PagerID: 3, ClientID: 1, Status: entity.StatusFinished}

	require.NoError(t, actions.AssignPager(context.Background(), patient, 0))

	require.Len(t, backend.updates, 1)
	assert.Zero(t, backend.updates[0].PagerID)
	assert.Equal(t, []string{"7"}, backend.deletes,
		"an inactive patient with no pager is removed in a follow-up request")
}

func TestActionsUnassignActivePatientKept(t *testing.T) {
	backend := &backendRecorder{}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{ID: 7, Name: "Doe John", PagerID: 3, ClientID: 1, Status: entity.StatusPending, Active: true}

	require.NoError(t, actions.AssignPager(context.Background(), patient, 0))

	require.Len(t, backend.updates, 1)
	assert.Empty(t, backend.deletes, "active patients stay on the board")
}

func TestActionsAssignPagerPartialChain(t *testing.T) {
	backend := &backendRecorder{failDelete: true}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{ID: 7, Name: "Doe John", PagerID: 3, ClientID: 1, Status: entity.StatusFinished}

	err := actions.AssignPager(context.Background(), patient, 0)
	assert.ErrorIs(t, err, ErrPartialChain)
	require.Len(t, backend.updates, 1, "the update went through before the delete failed")
}

func TestActionsAssignPagerUpdateRejectedNoDelete(t *testing.T) {
	backend := &backendRecorder{failUpdate: true}
	actions := newTestActions(t, backend)

	patient := &entity.Patient{ID: 7, Name: "Doe John", PagerID: 3, ClientID: 1, Status: entity.StatusFinished}

	err := actions.AssignPager(context.Background(), patient, 0)
	assert.ErrorIs(t, err, ErrUpdateRejected)
	assert.Empty(t, backend.deletes, "a refused update stops the chain before the delete")
}

func TestActionsNilPatient(t *testing.T) {
	backend := &backendRecorder{}
	actions := newTestActions(t, backend)

	assert.NoError(t, actions.CallPatient(context.Background(), nil))
	assert.NoError(t, actions.AssignPager(context.Background(), nil, 1))
	assert.Empty(t, backend.updates)
}
