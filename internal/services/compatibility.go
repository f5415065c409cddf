package services

import (
	"math"
	"strings"

	"github.com/adityarane/GymBuddyBack/internal/models"
)

// Compatibility factor weights. The four factors are independent and
// additive, so a total is always in [0, 100].
const (
	locationPoints    = 30
	workoutTimePoints = 25
	fitnessGoalPoints = 25
	experiencePoints  = 20
)

var experienceLevels = []string{
	models.ExperienceBeginner,
	models.ExperienceIntermediate,
	models.ExperienceAdvanced,
}

// CalculateCompatibility scores how well two profiles fit as workout
// partners. Missing or malformed attributes contribute zero for their
// factor; the function never fails.
func CalculateCompatibility(a, b *models.Profile) (int, models.ScoreBreakdown) {
	var breakdown models.ScoreBreakdown
	if a == nil || b == nil {
		return 0, breakdown
	}

	breakdown.Location = locationScore(a, b)
	breakdown.WorkoutTime = workoutTimeScore(a, b)
	breakdown.FitnessGoal = fitnessGoalScore(a, b)
	breakdown.Experience = experienceScore(a, b)

	return breakdown.Total(), breakdown
}

func locationScore(a, b *models.Profile) int {
	cityA := stringPtrValue(a.City)
	cityB := stringPtrValue(b.City)
	if cityA == "" || cityB == "" {
		return 0
	}
	if strings.EqualFold(cityA, cityB) {
		return locationPoints
	}
	return 0
}

func workoutTimeScore(a, b *models.Profile) int {
	timeA := stringPtrValue(a.PreferredWorkoutTime)
	timeB := stringPtrValue(b.PreferredWorkoutTime)
	if timeA == "" || timeB == "" {
		return 0
	}
	if timeA == timeB {
		return workoutTimePoints
	}
	return 0
}

func fitnessGoalScore(a, b *models.Profile) int {
	goalsA := stringSlicePtrValue(a.FitnessGoals)
	goalsB := stringSlicePtrValue(b.FitnessGoals)
	if len(goalsA) == 0 || len(goalsB) == 0 {
		return 0
	}

	goalSet := make(map[string]struct{}, len(goalsB))
	for _, goal := range goalsB {
		goalSet[goal] = struct{}{}
	}

	common := 0
	for _, goal := range goalsA {
		if _, ok := goalSet[goal]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}

	larger := len(goalsA)
	if len(goalsB) > larger {
		larger = len(goalsB)
	}
	ratio := float64(common) / float64(larger)
	return int(math.Round(fitnessGoalPoints * ratio))
}

func experienceScore(a, b *models.Profile) int {
	levelA := experienceIndex(stringPtrValue(a.ExperienceLevel))
	levelB := experienceIndex(stringPtrValue(b.ExperienceLevel))
	if levelA < 0 || levelB < 0 {
		return 0
	}
	switch diff := absInt(levelA - levelB); diff {
	case 0:
		return experiencePoints
	case 1:
		return experiencePoints / 2
	default:
		return 0
	}
}

func experienceIndex(level string) int {
	for i, known := range experienceLevels {
		if level == known {
			return i
		}
	}
	return -1
}

func absInt(value int) int {
	if value < 0 {
		return -value
	}
	return value
}

func stringPtrValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func stringSlicePtrValue(values *[]string) []string {
	if values == nil {
		return nil
	}
	return *values
}
