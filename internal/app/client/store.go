package client

import (
	"strconv"
	"sync"

	"golang.org/x/exp/slog"

	"pagient/internal/domain/entity"
)

// Store holds the canonical in-memory picture of the three entity
// collections. It is the only component that mutates them; everything else
// reads through the view methods. An RWMutex serializes all access, so every
// operation is synchronous and total.
//
// Two receive paths exist on purpose:
//   - the batch path (Receive*) inserts only absent entities, so a repeated
//     snapshot load never clobbers state that live events already advanced;
//   - the single-patient path (UpsertPatient) fully replaces, because a push
//     event is always newer than what the store holds.
type Store struct {
	mu       sync.RWMutex
	clients  map[uint]entity.Client
	pagers   map[uint]entity.Pager
	patients map[uint]entity.Patient

	// activeClientID points at the client currently in focus. It may name a
	// client that is not (or no longer) in the store.
	activeClientID uint

	settings  *SettingsStore
	log       *slog.Logger
	observers []func()
}

func NewStore(settings *SettingsStore, log *slog.Logger) *Store {
	s := &Store{
		clients:  make(map[uint]entity.Client),
		pagers:   make(map[uint]entity.Pager),
		patients: make(map[uint]entity.Patient),
		settings: settings,
		log:      log,
	}

	// A previous run may have left the active client behind.
	if settings != nil {
		if raw, err := settings.Get(keyActiveClient); err == nil && raw != "" {
			s.activeClientID = parseID(raw)
		}
	}

	return s
}

// Subscribe registers a callback fired after every mutation. Callbacks run
// on the mutating goroutine and must not call back into the store's write
// operations.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	observers := make([]func(), len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}

// ReceiveClients inserts every client that is not yet known. Known ids are
// left untouched, which makes a repeated snapshot load idempotent.
func (s *Store) ReceiveClients(clients []entity.Client) {
	s.mu.Lock()
	for _, client := range clients {
		if _, ok := s.clients[client.ID]; !ok {
			s.clients[client.ID] = client
		}
	}
	s.mu.Unlock()

	s.notify()
}

// ReceivePagers inserts every pager that is not yet known, first-write-wins
// like ReceiveClients.
func (s *Store) ReceivePagers(pagers []entity.Pager) {
	s.mu.Lock()
	for _, pager := range pagers {
		if _, ok := s.pagers[pager.ID]; !ok {
			s.pagers[pager.ID] = pager
		}
	}
	s.mu.Unlock()

	s.notify()
}

// ReceivePatients hydrates patients from a snapshot, insert-if-absent. Live
// updates go through UpsertPatient instead, which replaces.
func (s *Store) ReceivePatients(patients []entity.Patient) {
	s.mu.Lock()
	for _, patient := range patients {
		if _, ok := s.patients[patient.ID]; !ok {
			s.patients[patient.ID] = patient
		}
	}
	s.mu.Unlock()

	s.notify()
}

// UpsertPatient inserts or fully replaces the patient with the same id.
// When the patient is new or its identity fields (name, ssn, client) differ
// from the stored record, the change originated at the reception desk and
// the active client switches to the patient's client. A pure status or pager
// change leaves the pointer alone.
func (s *Store) UpsertPatient(patient entity.Patient) {
	s.mu.Lock()
	previous, existed := s.patients[patient.ID]
	s.patients[patient.ID] = patient

	if !existed ||
		previous.SSN != patient.SSN ||
		previous.Name != patient.Name ||
		previous.ClientID != patient.ClientID {
		s.setActiveClient(patient.ClientID)
	}
	s.mu.Unlock()

	s.notify()
}

// DeletePatient removes the patient; deleting an unknown id is a no-op.
func (s *Store) DeletePatient(id uint) {
	s.mu.Lock()
	_, existed := s.patients[id]
	delete(s.patients, id)
	s.mu.Unlock()

	if existed {
		s.notify()
	}
}

// SelectClient moves the active-client pointer and persists it under the
// legacy durable key. The id is not checked against the collection.
func (s *Store) SelectClient(id uint) {
	s.mu.Lock()
	s.setActiveClient(id)
	s.mu.Unlock()

	if s.settings != nil {
		if err := s.settings.Set(keyActiveClient, formatID(id)); err != nil {
			s.log.Warn("failed to persist active client", "error", err)
		}
	}

	s.notify()
}

// setActiveClient must be called with the write lock held.
func (s *Store) setActiveClient(id uint) {
	s.activeClientID = id
}

// ActiveClientID returns the current active-client pointer, 0 when unset.
func (s *Store) ActiveClientID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeClientID
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
