package models

import "time"

// TriggerEvent is the message payload from RabbitMQ requesting an on-demand report run
type TriggerEvent struct {
	RequestedBy string    `json:"requested_by"` // operator or service name
	Reason      string    `json:"reason"`       // free text, logged only
	RequestedAt time.Time `json:"requested_at"`
}

// Message is what a mail transport delivers for one report run
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}
