package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so a repository can be
// re-bound to a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, email_verify_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.EmailVerifyToken,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, is_email_verified, email_verify_token, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, is_email_verified, email_verify_token, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// VerifyEmailByToken marks the matching account verified and clears the
// token in one statement.
func (r *UserRepository) VerifyEmailByToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		UPDATE users
		SET is_email_verified = TRUE, email_verify_token = NULL, updated_at = NOW()
		WHERE email_verify_token = $1
		RETURNING id, name, email, password_hash, role, is_email_verified, email_verify_token, created_at, updated_at
	`
	return r.scanUser(r.db.QueryRow(ctx, query, token))
}

type UserListFilter struct {
	Search string
	Offset int
	Limit  int
}

func (r *UserRepository) List(ctx context.Context, filter UserListFilter) ([]models.User, int, error) {
	args := []any{}
	where := "TRUE"
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		where = fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT id, name, email, password_hash, role, is_email_verified, email_verify_token, created_at, updated_at
		FROM users
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
			&user.IsEmailVerified, &user.EmailVerifyToken, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) (*models.User, error) {
	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, is_email_verified, email_verify_token, created_at, updated_at
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id, role))
}

// Delete removes the account. Profiles, gyms, notifications and match rows
// cascade; a user who initiated matches or created tickets fails with a
// foreign key violation, which callers surface as a conflict.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	return count, err
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.IsEmailVerified, &user.EmailVerifyToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
