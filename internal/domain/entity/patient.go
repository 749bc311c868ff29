package entity

// Status holds the paging state of a patient.
type Status string

const (
	// StatusPending is for when the patient is waiting to be called
	StatusPending Status = "pending"
	// StatusCall is for when the patient's pager is about to be called
	StatusCall Status = "call"
	// StatusCalled is for when the patient's pager has been called
	StatusCalled Status = "called"
	// StatusFinished is for when the patient is done with the examination
	StatusFinished Status = "finished"
)

// Patient is a tracked patient. PagerID and ClientID reference the other
// collections by id; zero means unassigned. The store never validates the
// references, a dangling id simply yields no join.
type Patient struct {
	ID       uint   `json:"id"`
	SSN      string `json:"ssn"`
	Name     string `json:"name"`
	PagerID  uint   `json:"pagerId,omitempty"`
	ClientID uint   `json:"clientId"`
	Status   Status `json:"status"`
	Active   bool   `json:"active"`
}

// Clone returns a copy that can be mutated without touching the original.
func (p *Patient) Clone() *Patient {
	clone := *p
	return &clone
}
