package services

import (
	"testing"

	"github.com/adityarane/GymBuddyBack/internal/models"
)

func buildProfile(city, workoutTime, experience string, goals []string) *models.Profile {
	profile := &models.Profile{}
	if city != "" {
		profile.City = &city
	}
	if workoutTime != "" {
		profile.PreferredWorkoutTime = &workoutTime
	}
	if experience != "" {
		profile.ExperienceLevel = &experience
	}
	if goals != nil {
		profile.FitnessGoals = &goals
	}
	return profile
}

func TestCalculateCompatibilityFullMatch(t *testing.T) {
	a := buildProfile("Pune", "morning", models.ExperienceIntermediate, []string{"weight_loss", "muscle_gain"})
	b := buildProfile("Pune", "morning", models.ExperienceIntermediate, []string{"muscle_gain", "weight_loss"})

	total, breakdown := CalculateCompatibility(a, b)
	if total != 100 {
		t.Fatalf("expected total 100, got %d (breakdown %+v)", total, breakdown)
	}
}

func TestCalculateCompatibilityKnownVector(t *testing.T) {
	// Same city and workout time, disjoint goals, adjacent experience:
	// 30 + 25 + 0 + 10 = 65.
	a := buildProfile("Mumbai", "evening", models.ExperienceBeginner, []string{"weight_loss"})
	b := buildProfile("mumbai", "evening", models.ExperienceIntermediate, []string{"endurance"})

	total, breakdown := CalculateCompatibility(a, b)
	if total != 65 {
		t.Fatalf("expected total 65, got %d (breakdown %+v)", total, breakdown)
	}
	if breakdown.Location != 30 {
		t.Errorf("expected location 30, got %d", breakdown.Location)
	}
	if breakdown.WorkoutTime != 25 {
		t.Errorf("expected workout time 25, got %d", breakdown.WorkoutTime)
	}
	if breakdown.FitnessGoal != 0 {
		t.Errorf("expected fitness goal 0, got %d", breakdown.FitnessGoal)
	}
	if breakdown.Experience != 10 {
		t.Errorf("expected experience 10, got %d", breakdown.Experience)
	}
}

func TestCalculateCompatibilityLocationCaseInsensitive(t *testing.T) {
	a := buildProfile("MUMBAI", "", "", nil)
	b := buildProfile("mumbai", "", "", nil)

	total, breakdown := CalculateCompatibility(a, b)
	if breakdown.Location != 30 || total != 30 {
		t.Fatalf("expected location-only score 30, got total %d breakdown %+v", total, breakdown)
	}
}

func TestCalculateCompatibilityFitnessGoalRatio(t *testing.T) {
	tests := []struct {
		name   string
		goalsA []string
		goalsB []string
		want   int
	}{
		{"identical single", []string{"weight_loss"}, []string{"weight_loss"}, 25},
		{"half overlap", []string{"weight_loss", "muscle_gain"}, []string{"weight_loss"}, 13},
		{"one of three", []string{"a", "b", "c"}, []string{"a"}, 8},
		{"two of three", []string{"a", "b", "c"}, []string{"a", "b"}, 17},
		{"disjoint", []string{"a"}, []string{"b"}, 0},
		{"empty side", []string{}, []string{"a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := buildProfile("", "", "", tt.goalsA)
			b := buildProfile("", "", "", tt.goalsB)
			_, breakdown := CalculateCompatibility(a, b)
			if breakdown.FitnessGoal != tt.want {
				t.Fatalf("expected fitness goal %d, got %d", tt.want, breakdown.FitnessGoal)
			}
		})
	}
}

func TestCalculateCompatibilityExperienceDistance(t *testing.T) {
	tests := []struct {
		name   string
		levelA string
		levelB string
		want   int
	}{
		{"same level", models.ExperienceAdvanced, models.ExperienceAdvanced, 20},
		{"adjacent", models.ExperienceBeginner, models.ExperienceIntermediate, 10},
		{"two apart", models.ExperienceBeginner, models.ExperienceAdvanced, 0},
		{"unknown level", "expert", models.ExperienceAdvanced, 0},
		{"missing level", "", models.ExperienceAdvanced, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := buildProfile("", "", tt.levelA, nil)
			b := buildProfile("", "", tt.levelB, nil)
			_, breakdown := CalculateCompatibility(a, b)
			if breakdown.Experience != tt.want {
				t.Fatalf("expected experience %d, got %d", tt.want, breakdown.Experience)
			}
		})
	}
}

func TestCalculateCompatibilitySymmetry(t *testing.T) {
	a := buildProfile("Delhi", "morning", models.ExperienceBeginner, []string{"weight_loss", "endurance", "flexibility"})
	b := buildProfile("delhi", "evening", models.ExperienceAdvanced, []string{"endurance"})

	totalAB, breakdownAB := CalculateCompatibility(a, b)
	totalBA, breakdownBA := CalculateCompatibility(b, a)
	if totalAB != totalBA || breakdownAB != breakdownBA {
		t.Fatalf("expected symmetric scores, got %d %+v vs %d %+v", totalAB, breakdownAB, totalBA, breakdownBA)
	}
}

func TestCalculateCompatibilityNilAndEmptyProfiles(t *testing.T) {
	if total, _ := CalculateCompatibility(nil, buildProfile("Pune", "", "", nil)); total != 0 {
		t.Errorf("expected 0 for nil profile, got %d", total)
	}
	if total, _ := CalculateCompatibility(&models.Profile{}, &models.Profile{}); total != 0 {
		t.Errorf("expected 0 for empty profiles, got %d", total)
	}
}

func TestCalculateCompatibilityBounds(t *testing.T) {
	profiles := []*models.Profile{
		nil,
		{},
		buildProfile("Pune", "morning", models.ExperienceBeginner, []string{"a"}),
		buildProfile("pune", "evening", models.ExperienceAdvanced, []string{"a", "b", "c", "d"}),
		buildProfile("Nagpur", "morning", "unknown", []string{"b"}),
	}

	for _, a := range profiles {
		for _, b := range profiles {
			total, breakdown := CalculateCompatibility(a, b)
			if total < 0 || total > 100 {
				t.Fatalf("score out of bounds: %d (%+v)", total, breakdown)
			}
			if total != breakdown.Total() {
				t.Fatalf("total %d disagrees with breakdown sum %d", total, breakdown.Total())
			}
		}
	}
}
