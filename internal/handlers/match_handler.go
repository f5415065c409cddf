package handlers

import (
	"context"
	"errors"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type matchApplicationService interface {
	RequestMatch(ctx context.Context, requesterID, targetID int64) (*models.Match, error)
	RespondToMatch(ctx context.Context, responderID, matchID int64, decision string) (*models.Match, error)
	ListMatches(ctx context.Context, userID int64) ([]models.Match, error)
}

type matchRanker interface {
	GetRankedMatches(ctx context.Context, userID int64, profile *models.Profile) ([]models.RankedMatch, error)
}

type matchProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
}

type MatchHandler struct {
	service     matchApplicationService
	matchmaking matchRanker
	profileRepo matchProfileReader
}

func NewMatchHandler(
	service *services.MatchService,
	matchmaking *services.MatchmakingService,
	profileRepo matchProfileReader,
) *MatchHandler {
	return &MatchHandler{
		service:     service,
		matchmaking: matchmaking,
		profileRepo: profileRepo,
	}
}

type requestMatchRequest struct {
	TargetUserID int64 `json:"target_user_id"`
}

type respondMatchRequest struct {
	MatchID  int64  `json:"match_id"`
	Decision string `json:"decision"`
}

// GetMatches returns the ranked candidate list for the authenticated
// user, each entry carrying any existing match record's status.
func (h *MatchHandler) GetMatches(c *fiber.Ctx) error {
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

	matches, err := h.matchmaking.GetRankedMatches(c.Context(), userID, profile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch matches"})
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) SendRequest(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req requestMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.TargetUserID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_user_id is required"})
	}

	match, err := h.service.RequestMatch(c.Context(), userID, req.TargetUserID)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Match request sent",
		"match":   match,
	})
}

func (h *MatchHandler) Respond(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req respondMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.MatchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match_id is required"})
	}

	match, err := h.service.RespondToMatch(c.Context(), userID, req.MatchID, req.Decision)
	if err != nil {
		return mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Match request " + string(match.Status),
		"match":   match,
	})
}

func (h *MatchHandler) ListMine(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	matches, err := h.service.ListMatches(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch matches"})
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidTarget), errors.Is(err, services.ErrInvalidDecision):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateMatch):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Match request already exists"})
	case errors.Is(err, services.ErrMatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Match not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Only the recipient can respond to this request"})
	case errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process match request"})
	}
}
