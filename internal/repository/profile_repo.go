package repository

import (
	"context"

	"github.com/adityarane/GymBuddyBack/internal/models"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO user_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT user_id, age, gender, city, area, fitness_goals, preferred_workout_time,
			   experience_level, hobbies, motivation, bio, avatar_url, profile_complete,
			   created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Age,
		&profile.Gender,
		&profile.City,
		&profile.Area,
		&profile.FitnessGoals,
		&profile.PreferredWorkoutTime,
		&profile.ExperienceLevel,
		&profile.Hobbies,
		&profile.Motivation,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.ProfileComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

type UpdateProfileInput struct {
	Age                  *int
	Gender               *string
	City                 *string
	Area                 *string
	FitnessGoals         *[]string
	PreferredWorkoutTime *string
	ExperienceLevel      *string
	Hobbies              *[]string
	Motivation           *string
	Bio                  *string
	AvatarURL            *string
}

// UpdatePartial overwrites only the supplied fields; nil inputs keep the
// stored value. Completeness is recomputed by the caller from the
// returned row.
func (r *ProfileRepository) UpdatePartial(
	ctx context.Context,
	userID int64,
	input UpdateProfileInput,
) (*models.Profile, error) {
	query := `
		UPDATE user_profiles
		SET age = COALESCE($1, age),
			gender = COALESCE($2, gender),
			city = COALESCE($3, city),
			area = COALESCE($4, area),
			fitness_goals = COALESCE($5, fitness_goals),
			preferred_workout_time = COALESCE($6, preferred_workout_time),
			experience_level = COALESCE($7, experience_level),
			hobbies = COALESCE($8, hobbies),
			motivation = COALESCE($9, motivation),
			bio = COALESCE($10, bio),
			avatar_url = COALESCE($11, avatar_url),
			updated_at = NOW()
		WHERE user_id = $12
		RETURNING user_id, age, gender, city, area, fitness_goals, preferred_workout_time,
				  experience_level, hobbies, motivation, bio, avatar_url, profile_complete,
				  created_at, updated_at
	`
	var profile models.Profile
	err := r.db.QueryRow(ctx, query,
		input.Age,
		input.Gender,
		input.City,
		input.Area,
		input.FitnessGoals,
		input.PreferredWorkoutTime,
		input.ExperienceLevel,
		input.Hobbies,
		input.Motivation,
		input.Bio,
		input.AvatarURL,
		userID,
	).Scan(
		&profile.UserID,
		&profile.Age,
		&profile.Gender,
		&profile.City,
		&profile.Area,
		&profile.FitnessGoals,
		&profile.PreferredWorkoutTime,
		&profile.ExperienceLevel,
		&profile.Hobbies,
		&profile.Motivation,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.ProfileComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) SetComplete(ctx context.Context, userID int64, complete bool) error {
	query := `UPDATE user_profiles SET profile_complete = $2, updated_at = NOW() WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID, complete)
	return err
}

// ListCandidates returns the match candidate pool: regular users with
// complete profiles, excluding the requester.
func (r *ProfileRepository) ListCandidates(
	ctx context.Context,
	excludeUserID int64,
) ([]models.CandidateProfile, error) {
	query := `
		SELECT u.id, u.name, u.email,
			   p.user_id, p.age, p.gender, p.city, p.area, p.fitness_goals,
			   p.preferred_workout_time, p.experience_level, p.hobbies, p.motivation,
			   p.bio, p.avatar_url, p.profile_complete, p.created_at, p.updated_at
		FROM user_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id <> $1
		  AND p.profile_complete = TRUE
		  AND u.role = 'user'
		ORDER BY p.user_id ASC
	`
	rows, err := r.db.Query(ctx, query, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]models.CandidateProfile, 0)
	for rows.Next() {
		var candidate models.CandidateProfile
		if err := rows.Scan(
			&candidate.User.ID,
			&candidate.User.Name,
			&candidate.User.Email,
			&candidate.Profile.UserID,
			&candidate.Profile.Age,
			&candidate.Profile.Gender,
			&candidate.Profile.City,
			&candidate.Profile.Area,
			&candidate.Profile.FitnessGoals,
			&candidate.Profile.PreferredWorkoutTime,
			&candidate.Profile.ExperienceLevel,
			&candidate.Profile.Hobbies,
			&candidate.Profile.Motivation,
			&candidate.Profile.Bio,
			&candidate.Profile.AvatarURL,
			&candidate.Profile.ProfileComplete,
			&candidate.Profile.CreatedAt,
			&candidate.Profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		candidate.User.AvatarURL = candidate.Profile.AvatarURL
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}
