package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/adityarane/GymBuddyBack/internal/models"
	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	visitHistoryLimit     = 50
	recentVisitsPerGym    = 10
	pgForeignKeyViolation = "23503"
)

type GymHandler struct {
	gymRepo    *repository.GymRepository
	ticketRepo *repository.TicketRepository
}

func NewGymHandler(gymRepo *repository.GymRepository, ticketRepo *repository.TicketRepository) *GymHandler {
	return &GymHandler{gymRepo: gymRepo, ticketRepo: ticketRepo}
}

type createGymRequest struct {
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Area         *string   `json:"area"`
	Address      *string   `json:"address"`
	Description  *string   `json:"description"`
	Facilities   *[]string `json:"facilities"`
	MonthlyPrice *float64  `json:"monthly_price"`
	DayPassPrice *float64  `json:"day_pass_price"`
}

type updateGymRequest struct {
	Name         *string   `json:"name"`
	City         *string   `json:"city"`
	Area         *string   `json:"area"`
	Address      *string   `json:"address"`
	Description  *string   `json:"description"`
	Facilities   *[]string `json:"facilities"`
	MonthlyPrice *float64  `json:"monthly_price"`
	DayPassPrice *float64  `json:"day_pass_price"`
	IsActive     *bool     `json:"is_active"`
}

func (h *GymHandler) CreateGym(c *fiber.Ctx) error {
	ownerID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createGymRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name and city are required"})
	}

	gym, err := h.gymRepo.Create(c.Context(), repository.CreateGymInput{
		OwnerID:      ownerID,
		Name:         req.Name,
		City:         req.City,
		Area:         req.Area,
		Address:      req.Address,
		Description:  req.Description,
		Facilities:   req.Facilities,
		MonthlyPrice: req.MonthlyPrice,
		DayPassPrice: req.DayPassPrice,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create gym"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Gym created successfully",
		"gym":     gym,
	})
}

func (h *GymHandler) ListGyms(c *fiber.Ctx) error {
	page, limit, offset := parsePagination(c)

	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	gyms, total, err := h.gymRepo.List(c.Context(), repository.GymListFilter{
		City:     c.Query("city"),
		Facility: c.Query("facility"),
		MaxPrice: maxPrice,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gyms"})
	}

	return c.JSON(fiber.Map{
		"gyms":       gyms,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

func (h *GymHandler) GetGym(c *fiber.Ctx) error {
	gymID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || gymID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gym id"})
	}

	gym, err := h.gymRepo.GetByID(c.Context(), gymID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gym"})
	}

	return c.JSON(fiber.Map{"gym": gym})
}

func (h *GymHandler) UpdateGym(c *fiber.Ctx) error {
	ownerID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	gymID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || gymID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gym id"})
	}

	gym, err := h.gymRepo.GetByID(c.Context(), gymID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gym"})
	}
	if gym.OwnerID != ownerID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to update this gym"})
	}

	var req updateGymRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.gymRepo.Update(c.Context(), gymID, repository.UpdateGymInput{
		Name:         req.Name,
		City:         req.City,
		Area:         req.Area,
		Address:      req.Address,
		Description:  req.Description,
		Facilities:   req.Facilities,
		MonthlyPrice: req.MonthlyPrice,
		DayPassPrice: req.DayPassPrice,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update gym"})
	}

	return c.JSON(fiber.Map{
		"message": "Gym updated successfully",
		"gym":     updated,
	})
}

// DeleteGym removes a gym. Owners may delete their own; admins may delete
// any. A gym that already has recorded visits is refused so the visit
// history stays intact.
func (h *GymHandler) DeleteGym(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	gymID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || gymID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gym id"})
	}

	gym, err := h.gymRepo.GetByID(c.Context(), gymID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gym"})
	}

	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin && gym.OwnerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized to delete this gym"})
	}

	if err := h.gymRepo.Delete(c.Context(), gymID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Gym has recorded visits and cannot be deleted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete gym"})
	}

	return c.JSON(fiber.Map{"message": "Gym deleted successfully"})
}

// OwnerDashboard lists the authenticated owner's gyms with their visitor
// totals.
func (h *GymHandler) OwnerDashboard(c *fiber.Ctx) error {
	ownerID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	gyms, err := h.gymRepo.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gyms"})
	}

	totalVisitors := 0
	for _, gym := range gyms {
		totalVisitors += gym.TotalVisitors
	}

	return c.JSON(fiber.Map{
		"gyms":           gyms,
		"total_gyms":     len(gyms),
		"total_visitors": totalVisitors,
	})
}

// VisitHistory reports per-gym visit counts and the most recent tickets
// for every gym the authenticated owner runs.
func (h *GymHandler) VisitHistory(c *fiber.Ctx) error {
	ownerID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	gyms, err := h.gymRepo.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gyms"})
	}

	visits := []models.GymVisit{}
	if len(gyms) > 0 {
		gymIDs := make([]int64, 0, len(gyms))
		for _, gym := range gyms {
			gymIDs = append(gymIDs, gym.ID)
		}
		visits, err = h.ticketRepo.ListRecentVisits(c.Context(), gymIDs, visitHistoryLimit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch visit history"})
		}
	}

	return c.JSON(fiber.Map{
		"gym_stats":     buildGymVisitStats(gyms, visits),
		"total_tickets": len(visits),
	})
}

// buildGymVisitStats folds the visit rows into per-gym counters, keeping
// at most recentVisitsPerGym tickets per gym. Visits for gyms outside the
// owner's list are dropped.
func buildGymVisitStats(gyms []models.Gym, visits []models.GymVisit) []models.GymVisitStats {
	stats := make([]models.GymVisitStats, len(gyms))
	byGym := make(map[int64]*models.GymVisitStats, len(gyms))
	for i, gym := range gyms {
		stats[i] = models.GymVisitStats{
			GymID:         gym.ID,
			GymName:       gym.Name,
			City:          gym.City,
			TotalVisitors: gym.TotalVisitors,
			RecentTickets: []models.GymVisit{},
		}
		byGym[gym.ID] = &stats[i]
	}

	for _, visit := range visits {
		entry, ok := byGym[visit.GymID]
		if !ok {
			continue
		}
		switch visit.Status {
		case models.TicketCompleted:
			entry.CompletedVisits++
		case models.TicketActive:
			entry.ActiveVisits++
		}
		if len(entry.RecentTickets) < recentVisitsPerGym {
			entry.RecentTickets = append(entry.RecentTickets, visit)
		}
	}

	return stats
}
