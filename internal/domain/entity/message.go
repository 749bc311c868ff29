package entity

import "encoding/json"

// MessageType discriminates the events pushed over the live channel.
type MessageType string

const (
	MessageTypePatientAdd    MessageType = "patient_add"
	MessageTypePatientUpdate MessageType = "patient_update"
	MessageTypePatientDelete MessageType = "patient_delete"
)

// Message is one inbound event on the live channel. Data stays raw until the
// type is known so that an unknown message can be rejected without guessing
// at its payload.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}
