package models

import "time"

// DeliveryStatus tracks the notification email for a stored message.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Message is a contact form submission. Token is the submission key used to
// collapse resubmissions of the same form into one record.
type Message struct {
	ID               string         `json:"id"`
	Token            string         `json:"token"`
	Name             string         `json:"name"`
	Email            string         `json:"email"`
	Content          string         `json:"content"`
	CreatedAt        time.Time      `json:"createdAt"`
	DeliveryStatus   DeliveryStatus `json:"deliveryStatus"`
	DeliveryAttempts int            `json:"deliveryAttempts"`
	LastError        string         `json:"lastError,omitempty"`
	NotifiedAt       *time.Time     `json:"notifiedAt,omitempty"`
}
