package models

import "time"

type TicketStatus string

const (
	TicketPending   TicketStatus = "pending"
	TicketConfirmed TicketStatus = "confirmed"
	TicketActive    TicketStatus = "active"
	TicketCompleted TicketStatus = "completed"
	TicketCancelled TicketStatus = "cancelled"
)

// IsTerminal reports whether the ticket can no longer change state.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketCompleted || s == TicketCancelled
}

// IsValid reports whether s is one of the five known statuses.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketPending, TicketConfirmed, TicketActive, TicketCompleted, TicketCancelled:
		return true
	}
	return false
}

// Ticket is a planned or executed joint workout session backed by an
// accepted match. UserA and UserB are copied from the match at creation.
type Ticket struct {
	ID          int64        `json:"id"`
	MatchID     int64        `json:"match_id"`
	UserA       int64        `json:"user_a"`
	UserB       int64        `json:"user_b"`
	CreatedBy   int64        `json:"created_by"`
	GymID       *int64       `json:"gym_id"`
	Status      TicketStatus `json:"status"`
	WorkoutDate *time.Time   `json:"workout_date"`
	WorkoutType *string      `json:"workout_type"`
	Notes       *string      `json:"notes"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *Ticket) HasParticipant(userID int64) bool {
	return t.UserA == userID || t.UserB == userID
}

func (t *Ticket) OtherParticipant(userID int64) int64 {
	if t.UserA == userID {
		return t.UserB
	}
	return t.UserA
}

// TicketHistoryEntry is one append-only record of a status change.
type TicketHistoryEntry struct {
	ID        int64        `json:"id"`
	TicketID  int64        `json:"ticket_id"`
	Status    TicketStatus `json:"status"`
	ChangedBy int64        `json:"changed_by"`
	ChangedAt time.Time    `json:"changed_at"`
}

// TicketDetail is a ticket with display data resolved for the client.
type TicketDetail struct {
	Ticket
	Participants []PublicUser         `json:"participants"`
	Gym          *Gym                 `json:"gym,omitempty"`
	History      []TicketHistoryEntry `json:"status_history,omitempty"`
}
