package entity

// Pager is a physical paging device handed to a patient.
type Pager struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
