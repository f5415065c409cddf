package models

import "time"

type Gym struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Area          *string   `json:"area"`
	Address       *string   `json:"address"`
	Description   *string   `json:"description"`
	Facilities    *[]string `json:"facilities"`
	MonthlyPrice  *float64  `json:"monthly_price"`
	DayPassPrice  *float64  `json:"day_pass_price"`
	Rating        float64   `json:"rating"`
	TotalVisitors int       `json:"total_visitors"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GymVisit is one active or completed workout ticket at a gym, with the
// participant names resolved for the owner's history view.
type GymVisit struct {
	TicketID    int64        `json:"ticket_id"`
	GymID       int64        `json:"gym_id"`
	Status      TicketStatus `json:"status"`
	WorkoutType *string      `json:"workout_type"`
	WorkoutDate *time.Time   `json:"workout_date"`
	UserAName   string       `json:"user_a_name"`
	UserBName   string       `json:"user_b_name"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type GymVisitStats struct {
	GymID           int64      `json:"gym_id"`
	GymName         string     `json:"gym_name"`
	City            string     `json:"city"`
	TotalVisitors   int        `json:"total_visitors"`
	CompletedVisits int        `json:"completed_visits"`
	ActiveVisits    int        `json:"active_visits"`
	RecentTickets   []GymVisit `json:"recent_tickets"`
}
