package models

import "time"

// Experience levels ordered from least to most experienced. The order
// matters: adjacent levels earn partial compatibility points.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

type Profile struct {
	UserID               int64     `json:"user_id"`
	Age                  *int      `json:"age"`
	Gender               *string   `json:"gender"`
	City                 *string   `json:"city"`
	Area                 *string   `json:"area"`
	FitnessGoals         *[]string `json:"fitness_goals"`
	PreferredWorkoutTime *string   `json:"preferred_workout_time"`
	ExperienceLevel      *string   `json:"experience_level"`
	Hobbies              *[]string `json:"hobbies"`
	Motivation           *string   `json:"motivation"`
	Bio                  *string   `json:"bio"`
	AvatarURL            *string   `json:"avatar_url"`
	ProfileComplete      bool      `json:"profile_complete"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// IsComplete reports whether the profile carries every attribute the
// matching algorithm needs. Incomplete profiles are excluded from the
// candidate pool.
func (p *Profile) IsComplete() bool {
	if p == nil {
		return false
	}
	hasGoals := p.FitnessGoals != nil && len(*p.FitnessGoals) > 0
	return p.Age != nil && p.Gender != nil &&
		p.City != nil && *p.City != "" &&
		hasGoals &&
		p.PreferredWorkoutTime != nil && *p.PreferredWorkoutTime != "" &&
		p.ExperienceLevel != nil && *p.ExperienceLevel != ""
}

// CandidateProfile joins a profile with the display identity of its owner,
// as returned by the candidate-pool query.
type CandidateProfile struct {
	User    PublicUser `json:"user"`
	Profile Profile    `json:"profile"`
}
