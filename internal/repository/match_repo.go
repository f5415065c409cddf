package repository

import (
	"context"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type CreateMatchInput struct {
	UserA       int64
	UserB       int64
	Score       int
	Breakdown   models.ScoreBreakdown
	InitiatedBy int64
}

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, user_a, user_b, compatibility_score,
	location_score, workout_time_score, fitness_goal_score, experience_score,
	status, initiated_by, created_at, updated_at`

// Create inserts a pending match. UserA/UserB must already be in canonical
// order; the (user_a, user_b) unique index rejects a duplicate pair with a
// unique violation regardless of which side initiated.
func (r *MatchRepository) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	query := `
		INSERT INTO matches (user_a, user_b, compatibility_score,
			location_score, workout_time_score, fitness_goal_score, experience_score,
			status, initiated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)
		RETURNING ` + matchColumns
	return r.scanMatch(r.db.QueryRow(ctx, query,
		input.UserA, input.UserB, input.Score,
		input.Breakdown.Location, input.Breakdown.WorkoutTime,
		input.Breakdown.FitnessGoal, input.Breakdown.Experience,
		input.InitiatedBy,
	))
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRow(ctx, query, matchID))
}

// FindByPair looks a match up by its canonical pair order.
func (r *MatchRepository) FindByPair(ctx context.Context, userA, userB int64) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE user_a = $1 AND user_b = $2`
	return r.scanMatch(r.db.QueryRow(ctx, query, userA, userB))
}

func (r *MatchRepository) ListForUser(ctx context.Context, userID int64) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE user_a = $1 OR user_b = $1
		ORDER BY updated_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// UpdateStatusIfCurrent flips the status only if it still holds the
// expected value, returning pgx.ErrNoRows when a concurrent responder got
// there first.
func (r *MatchRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	matchID int64,
	current, next models.MatchStatus,
) (*models.Match, error) {
	query := `
		UPDATE matches
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + matchColumns
	return r.scanMatch(r.db.QueryRow(ctx, query, matchID, current, next))
}

func (r *MatchRepository) CountByStatus(ctx context.Context, status models.MatchStatus) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM matches WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *MatchRepository) scanMatch(row pgx.Row) (*models.Match, error) {
	var match models.Match
	err := row.Scan(
		&match.ID, &match.UserA, &match.UserB, &match.CompatibilityScore,
		&match.ScoreBreakdown.Location, &match.ScoreBreakdown.WorkoutTime,
		&match.ScoreBreakdown.FitnessGoal, &match.ScoreBreakdown.Experience,
		&match.Status, &match.InitiatedBy, &match.CreatedAt, &match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}