package client

import (
	"sort"

	"pagient/internal/domain/entity"
)

// ClientView is a client annotated with its active patient, nil when none.
type ClientView struct {
	entity.Client
	Patient *entity.Patient
}

// PagerView is a pager annotated with the patient carrying it, nil when the
// pager is free.
type PagerView struct {
	entity.Pager
	Patient *entity.Patient
}

// The view methods are pure derivations over the current store contents,
// recomputed on every call. They hand out copies, never references into the
// store's own records.

// Clients returns all clients joined with their active patient, ordered by id
// for stable rendering.
func (s *Store) Clients() []ClientView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]ClientView, 0, len(s.clients))
	for _, client := range s.clients {
		views = append(views, ClientView{
			Client:  client,
			Patient: s.patientByClient(client.ID),
		})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// Pagers returns all pagers joined with their carrier, ordered by id.
func (s *Store) Pagers() []PagerView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]PagerView, 0, len(s.pagers))
	for _, pager := range s.pagers {
		views = append(views, PagerView{
			Pager:   pager,
			Patient: s.patientByPager(pager.ID),
		})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

// Patients returns all patients, ordered by id.
func (s *Store) Patients() []entity.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patients := make([]entity.Patient, 0, len(s.patients))
	for _, patient := range s.patients {
		patients = append(patients, patient)
	}

	sort.Slice(patients, func(i, j int) bool { return patients[i].ID < patients[j].ID })
	return patients
}

// Patient returns the patient with the given id, nil when unknown.
func (s *Store) Patient(id uint) *entity.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if patient, ok := s.patients[id]; ok {
		return patient.Clone()
	}
	return nil
}

// ActiveClient returns the client the active pointer names, nil when the
// pointer is unset or dangling.
func (s *Store) ActiveClient() *entity.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if client, ok := s.clients[s.activeClientID]; ok {
		clone := client
		return &clone
	}
	return nil
}

// ActivePatient returns the active patient of the active client, nil when
// there is none.
func (s *Store) ActivePatient() *entity.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.patientByClient(s.activeClientID)
}

// patientByClient finds the active patient assigned to the client. Must be
// called with at least the read lock held.
func (s *Store) patientByClient(clientID uint) *entity.Patient {
	for _, patient := range s.patients {
		if patient.ClientID == clientID && patient.Active {
			return patient.Clone()
		}
	}
	return nil
}

// patientByPager finds the patient carrying the pager. More than one patient
// referencing the same pager is not expected; the first match wins. Must be
// called with at least the read lock held.
func (s *Store) patientByPager(pagerID uint) *entity.Patient {
	if pagerID == 0 {
		return nil
	}
	for _, patient := range s.patients {
		if patient.PagerID == pagerID {
			return patient.Clone()
		}
	}
	return nil
}
