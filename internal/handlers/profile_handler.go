package handlers

import (
	"errors"
	"strconv"

	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type ProfileHandler struct {
	profileRepo *repository.ProfileRepository
}

func NewProfileHandler(profileRepo *repository.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileRepo.GetByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

type updateProfileRequest struct {
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
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	profile, err := h.profileRepo.UpdatePartial(c.Context(), userID, repository.UpdateProfileInput{
		Age:                  req.Age,
		Gender:               req.Gender,
		City:                 req.City,
		Area:                 req.Area,
		FitnessGoals:         req.FitnessGoals,
		PreferredWorkoutTime: req.PreferredWorkoutTime,
		ExperienceLevel:      req.ExperienceLevel,
		Hobbies:              req.Hobbies,
		Motivation:           req.Motivation,
		Bio:                  req.Bio,
		AvatarURL:            req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	// Completeness gates candidacy for matching, so recompute it after
	// every edit.
	if complete := profile.IsComplete(); complete != profile.ProfileComplete {
		if err := h.profileRepo.SetComplete(c.Context(), userID, complete); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
		}
		profile.ProfileComplete = complete
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

func parseAuthUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
