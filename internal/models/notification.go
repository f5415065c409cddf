package models

import "time"

// Notification types cover the match and ticket lifecycles. Ticket types
// are derived from the status the ticket moved into.
const (
	NotificationMatchRequest  = "match-request"
	NotificationMatchAccepted = "match-accepted"
	NotificationMatchRejected = "match-rejected"
	NotificationTicketCreated = "ticket-created"
)

const (
	RelatedMatch  = "Match"
	RelatedTicket = "CollaborationTicket"
	RelatedGym    = "Gym"
)

type Notification struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Type         string    `json:"type"`
	Message      string    `json:"message"`
	RelatedID    *int64    `json:"related_id"`
	RelatedModel *string   `json:"related_model"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
}
