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

type AdminHandler struct {
	userRepo   *repository.UserRepository
	matchRepo  *repository.MatchRepository
	ticketRepo *repository.TicketRepository
	gymRepo    *repository.GymRepository
}

func NewAdminHandler(
	userRepo *repository.UserRepository,
	matchRepo *repository.MatchRepository,
	ticketRepo *repository.TicketRepository,
	gymRepo *repository.GymRepository,
) *AdminHandler {
	return &AdminHandler{
		userRepo:   userRepo,
		matchRepo:  matchRepo,
		ticketRepo: ticketRepo,
		gymRepo:    gymRepo,
	}
}

// Stats aggregates platform-wide counts for the admin dashboard.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	ctx := c.Context()

	users, err := h.userRepo.CountByRole(ctx, models.RoleUser)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	gymOwners, err := h.userRepo.CountByRole(ctx, models.RoleGymOwner)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	gyms, err := h.gymRepo.Count(ctx)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}

	matchCounts := fiber.Map{}
	for _, status := range []models.MatchStatus{
		models.MatchPending, models.MatchAccepted, models.MatchRejected,
	} {
		count, err := h.matchRepo.CountByStatus(ctx, status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
		}
		matchCounts[string(status)] = count
	}

	ticketCounts := fiber.Map{}
	for _, status := range []models.TicketStatus{
		models.TicketPending, models.TicketConfirmed, models.TicketActive,
		models.TicketCompleted, models.TicketCancelled,
	} {
		count, err := h.ticketRepo.CountByStatus(ctx, status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch stats"})
		}
		ticketCounts[string(status)] = count
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"gym_owners": gymOwners,
		"gyms":       gyms,
		"matches":    matchCounts,
		"tickets":    ticketCounts,
	})
}

// ListUsers supports the admin user search view.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit, offset := parsePagination(c)

	users, total, err := h.userRepo.List(c.Context(), repository.UserListFilter{
		Search: c.Query("search"),
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	publicUsers := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		publicUsers = append(publicUsers, user.Public())
	}

	return c.JSON(fiber.Map{
		"users":      publicUsers,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}

type updateUserRoleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var req updateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	role := strings.TrimSpace(req.Role)
	if !models.IsValidRole(role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role. Must be user, gymOwner, or admin"})
	}

	user, err := h.userRepo.UpdateRole(c.Context(), userID, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update role"})
	}

	return c.JSON(fiber.Map{
		"message": "Role updated to " + role,
		"user":    user.Public(),
	})
}

// DeleteUser removes an account. Accounts that initiated matches or
// created tickets are refused so activity records stay attributable.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	if err := h.userRepo.Delete(c.Context(), userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User has match or ticket activity and cannot be deleted"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
