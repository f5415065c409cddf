package repository

import (
	"context"
	"time"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateTicketInput struct {
	MatchID     int64
	UserA       int64
	UserB       int64
	CreatedBy   int64
	WorkoutDate *time.Time
	WorkoutType *string
	Notes       *string
}

type TicketRepository struct {
	db DBTX
}

func NewTicketRepository(db DBTX) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `id, match_id, user_a, user_b, created_by, gym_id, status,
	workout_date, workout_type, notes, completed_at, created_at, updated_at`

func (r *TicketRepository) Create(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	query := `
		INSERT INTO tickets (match_id, user_a, user_b, created_by, status, workout_date, workout_type, notes)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7)
		RETURNING ` + ticketColumns
	return r.scanTicket(r.db.QueryRow(ctx, query,
		input.MatchID, input.UserA, input.UserB, input.CreatedBy,
		input.WorkoutDate, input.WorkoutType, input.Notes,
	))
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return r.scanTicket(r.db.QueryRow(ctx, query, ticketID))
}

// FindActiveByMatchID returns the match's non-terminal ticket, if any.
func (r *TicketRepository) FindActiveByMatchID(ctx context.Context, matchID int64) (*models.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE match_id = $1 AND status NOT IN ('completed', 'cancelled')
	`
	return r.scanTicket(r.db.QueryRow(ctx, query, matchID))
}

func (r *TicketRepository) ListForUser(
	ctx context.Context,
	userID int64,
	status models.TicketStatus,
) ([]models.Ticket, error) {
	args := []any{userID}
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE (user_a = $1 OR user_b = $1)
	`
	if status != "" {
		args = append(args, status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY updated_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]models.Ticket, 0)
	for rows.Next() {
		ticket, err := r.scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// UpdateStatusIfCurrent performs the compare-and-set status write,
// optionally attaching a gym and a completion timestamp in the same
// statement. pgx.ErrNoRows means the ticket left the expected status
// concurrently.
func (r *TicketRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	ticketID int64,
	current, next models.TicketStatus,
	gymID *int64,
	completedAt *time.Time,
) (*models.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $3,
			gym_id = COALESCE($4, gym_id),
			completed_at = COALESCE($5, completed_at),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + ticketColumns
	return r.scanTicket(r.db.QueryRow(ctx, query, ticketID, current, next, gymID, completedAt))
}

// AppendHistory records one status change. Callers run it in the same
// transaction as the status write so the log can never drift from the
// status field.
func (r *TicketRepository) AppendHistory(
	ctx context.Context,
	ticketID int64,
	status models.TicketStatus,
	changedBy int64,
) error {
	query := `
		INSERT INTO ticket_status_history (ticket_id, status, changed_by)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, ticketID, status, changedBy)
	return err
}

func (r *TicketRepository) ListHistory(ctx context.Context, ticketID int64) ([]models.TicketHistoryEntry, error) {
	query := `
		SELECT id, ticket_id, status, changed_by, changed_at
		FROM ticket_status_history
		WHERE ticket_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.TicketHistoryEntry, 0)
	for rows.Next() {
		var entry models.TicketHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.TicketID, &entry.Status, &entry.ChangedBy, &entry.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListRecentVisits returns active and completed tickets held at any of the
// given gyms, newest first, with participant names resolved.
func (r *TicketRepository) ListRecentVisits(ctx context.Context, gymIDs []int64, limit int) ([]models.GymVisit, error) {
	query := `
		SELECT t.id, t.gym_id, t.status, t.workout_type, t.workout_date,
			ua.name, ub.name, t.updated_at
		FROM tickets t
		JOIN users ua ON ua.id = t.user_a
		JOIN users ub ON ub.id = t.user_b
		WHERE t.gym_id = ANY($1) AND t.status IN ('active', 'completed')
		ORDER BY t.updated_at DESC, t.id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, gymIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := make([]models.GymVisit, 0)
	for rows.Next() {
		var visit models.GymVisit
		if err := rows.Scan(
			&visit.TicketID, &visit.GymID, &visit.Status, &visit.WorkoutType,
			&visit.WorkoutDate, &visit.UserAName, &visit.UserBName, &visit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return visits, nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context, status models.TicketStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *TicketRepository) scanTicket(row pgx.Row) (*models.Ticket, error) {
	var ticket models.Ticket
	err := row.Scan(
		&ticket.ID, &ticket.MatchID, &ticket.UserA, &ticket.UserB, &ticket.CreatedBy,
		&ticket.GymID, &ticket.Status, &ticket.WorkoutDate, &ticket.WorkoutType,
		&ticket.Notes, &ticket.CompletedAt, &ticket.CreatedAt, &ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
