package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/jackc/pgx/v5"
)

type GymRepository struct {
	db DBTX
}

func NewGymRepository(db DBTX) *GymRepository {
	return &GymRepository{db: db}
}

const gymColumns = `id, owner_id, name, city, area, address, description, facilities,
	monthly_price, day_pass_price, rating, total_visitors, is_active, created_at, updated_at`

type CreateGymInput struct {
	OwnerID      int64
	Name         string
	City         string
	Area         *string
	Address      *string
	Description  *string
	Facilities   *[]string
	MonthlyPrice *float64
	DayPassPrice *float64
}

func (r *GymRepository) Create(ctx context.Context, input CreateGymInput) (*models.Gym, error) {
	query := `
		INSERT INTO gyms (owner_id, name, city, area, address, description, facilities, monthly_price, day_pass_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + gymColumns
	return r.scanGym(r.db.QueryRow(ctx, query,
		input.OwnerID, input.Name, input.City, input.Area, input.Address,
		input.Description, input.Facilities, input.MonthlyPrice, input.DayPassPrice,
	))
}

func (r *GymRepository) GetByID(ctx context.Context, gymID int64) (*models.Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE id = $1`
	return r.scanGym(r.db.QueryRow(ctx, query, gymID))
}

type GymListFilter struct {
	City     string
	Facility string
	MaxPrice float64
	Offset   int
	Limit    int
}

func (r *GymRepository) List(ctx context.Context, filter GymListFilter) ([]models.Gym, int, error) {
	args := []any{}
	whereParts := []string{"is_active = TRUE"}

	if city := strings.TrimSpace(filter.City); city != "" {
		args = append(args, "%"+city+"%")
		whereParts = append(whereParts, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if facility := strings.TrimSpace(filter.Facility); facility != "" {
		args = append(args, facility)
		whereParts = append(whereParts, fmt.Sprintf("$%d = ANY(facilities)", len(args)))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		whereParts = append(whereParts, fmt.Sprintf("monthly_price <= $%d", len(args)))
	}
	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM gyms WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM gyms
		WHERE %s
		ORDER BY rating DESC, id ASC
		LIMIT $%d OFFSET $%d
	`, gymColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	gyms := make([]models.Gym, 0)
	for rows.Next() {
		gym, err := r.scanGym(rows)
		if err != nil {
			return nil, 0, err
		}
		gyms = append(gyms, *gym)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return gyms, total, nil
}

func (r *GymRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Gym, error) {
	query := `SELECT ` + gymColumns + ` FROM gyms WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gyms := make([]models.Gym, 0)
	for rows.Next() {
		gym, err := r.scanGym(rows)
		if err != nil {
			return nil, err
		}
		gyms = append(gyms, *gym)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gyms, nil
}

type UpdateGymInput struct {
	Name         *string
	City         *string
	Area         *string
	Address      *string
	Description  *string
	Facilities   *[]string
	MonthlyPrice *float64
	DayPassPrice *float64
	IsActive     *bool
}

func (r *GymRepository) Update(ctx context.Context, gymID int64, input UpdateGymInput) (*models.Gym, error) {
	query := `
		UPDATE gyms
		SET name = COALESCE($1, name),
			city = COALESCE($2, city),
			area = COALESCE($3, area),
			address = COALESCE($4, address),
			description = COALESCE($5, description),
			facilities = COALESCE($6, facilities),
			monthly_price = COALESCE($7, monthly_price),
			day_pass_price = COALESCE($8, day_pass_price),
			is_active = COALESCE($9, is_active),
			updated_at = NOW()
		WHERE id = $10
		RETURNING ` + gymColumns
	return r.scanGym(r.db.QueryRow(ctx, query,
		input.Name, input.City, input.Area, input.Address, input.Description,
		input.Facilities, input.MonthlyPrice, input.DayPassPrice, input.IsActive, gymID,
	))
}

// IncrementVisitors bumps the visitor counter server-side. A single atomic
// increment, never a read-modify-write, so concurrent activations against
// the same gym cannot lose updates.
func (r *GymRepository) IncrementVisitors(ctx context.Context, gymID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE gyms SET total_visitors = total_visitors + 1, updated_at = NOW() WHERE id = $1`,
		gymID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete fails with a foreign key violation while tickets still reference
// the gym; callers map that to a conflict rather than cascading visit
// records away.
func (r *GymRepository) Delete(ctx context.Context, gymID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM gyms WHERE id = $1`, gymID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *GymRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gyms`).Scan(&count)
	return count, err
}

func (r *GymRepository) scanGym(row pgx.Row) (*models.Gym, error) {
	var gym models.Gym
	err := row.Scan(
		&gym.ID, &gym.OwnerID, &gym.Name, &gym.City, &gym.Area, &gym.Address,
		&gym.Description, &gym.Facilities, &gym.MonthlyPrice, &gym.DayPassPrice,
		&gym.Rating, &gym.TotalVisitors, &gym.IsActive, &gym.CreatedAt, &gym.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &gym, nil
}
