package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type ticketApplicationService interface {
	CreateTicket(ctx context.Context, creatorID int64, input services.CreateTicketInput) (*models.TicketDetail, error)
	UpdateStatus(ctx context.Context, actorID int64, input services.UpdateTicketStatusInput) (*models.TicketDetail, error)
	ListTickets(ctx context.Context, userID int64, status models.TicketStatus) ([]models.TicketDetail, error)
}

type TicketHandler struct {
	service ticketApplicationService
}

func NewTicketHandler(service *services.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

type createTicketRequest struct {
	MatchID     int64   `json:"match_id"`
	WorkoutDate *string `json:"workout_date"`
	WorkoutType *string `json:"workout_type"`
	Notes       *string `json:"notes"`
}

type updateTicketStatusRequest struct {
	Status string `json:"status"`
	GymID  *int64 `json:"gym_id"`
}

func (h *TicketHandler) CreateTicket(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.MatchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match_id is required"})
	}

	var workoutDate *time.Time
	if req.WorkoutDate != nil {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.WorkoutDate))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "workout_date must be a valid RFC3339 timestamp"})
		}
		workoutDate = &parsed
	}

	ticket, err := h.service.CreateTicket(c.Context(), userID, services.CreateTicketInput{
		MatchID:     req.MatchID,
		WorkoutDate: workoutDate,
		WorkoutType: req.WorkoutType,
		Notes:       req.Notes,
	})
	if err != nil {
		return mapTicketError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Collaboration ticket created",
		"ticket":  ticket,
	})
}

func (h *TicketHandler) ListTickets(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	status := models.TicketStatus(strings.TrimSpace(c.Query("status")))
	tickets, err := h.service.ListTickets(c.Context(), userID, status)
	if err != nil {
		return mapTicketError(c, err)
	}

	return c.JSON(fiber.Map{"tickets": tickets})
}

func (h *TicketHandler) UpdateStatus(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	ticketID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || ticketID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ticket id"})
	}

	var req updateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ticket, err := h.service.UpdateStatus(c.Context(), userID, services.UpdateTicketStatusInput{
		TicketID: ticketID,
		Status:   models.TicketStatus(strings.TrimSpace(req.Status)),
		GymID:    req.GymID,
	})
	if err != nil {
		return mapTicketError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Ticket " + string(ticket.Status),
		"ticket":  ticket,
	})
}

func mapTicketError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrMatchNotAccepted):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to update this ticket"})
	case errors.Is(err, services.ErrDuplicateActiveTicket):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Active ticket already exists for this match"})
	case errors.Is(err, services.ErrGymRequired):
		// A state condition like a bad transition, not a malformed request.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		// Also covers the expected two-participant activation race; the
		// message names the current status so the client can refresh.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTicketNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
	case errors.Is(err, services.ErrMatchNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Match not found"})
	case errors.Is(err, services.ErrGymNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ticket not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process ticket request"})
	}
}
