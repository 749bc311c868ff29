package entity

// Client is a consultation room the staff works from.
type Client struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
