package handlers

import (
	"strconv"

	"github.com/adityarane/GymBuddyBack/internal/cache"
	"github.com/adityarane/GymBuddyBack/internal/repository"
	"github.com/gofiber/fiber/v2"
)

const defaultNotificationLimit = 50

type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
	unreadCache      *cache.UnreadCache
}

func NewNotificationHandler(
	notificationRepo *repository.NotificationRepository,
	unreadCache *cache.UnreadCache,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		unreadCache:      unreadCache,
	}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	unreadOnly := c.Query("unread") == "true"
	limit := parsePositiveInt(c.Query("limit"), defaultNotificationLimit)
	if limit > 100 {
		limit = 100
	}

	notifications, err := h.notificationRepo.ListForUser(c.Context(), userID, unreadOnly, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

// UnreadCount serves the badge counter. Cache first, database on miss,
// and the fresh count repopulates the cache.
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if count, ok := h.unreadCache.Get(c.Context(), userID); ok {
		return c.JSON(fiber.Map{"unread": count})
	}

	count, err := h.notificationRepo.CountUnread(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch unread count"})
	}
	h.unreadCache.Set(c.Context(), userID, count)

	return c.JSON(fiber.Map{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	notificationID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || notificationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	updated, err := h.notificationRepo.MarkRead(c.Context(), userID, notificationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification read"})
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}
	h.unreadCache.Invalidate(c.Context(), userID)

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := parseAuthUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.notificationRepo.MarkAllRead(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}
	h.unreadCache.Set(c.Context(), userID, 0)

	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
