package handlers

import (
	"log"

	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for the banner feed.
type NotificationHandler struct {
	service  *services.NotificationService
	validate *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public active-banner route.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications/active", h.HandleActiveNotification)
}

// RegisterAdminRoutes registers the banner management routes.
func (h *NotificationHandler) RegisterAdminRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleGetNotifications)
	notificationRoutes.Post("/", h.HandleCreateNotification)
	notificationRoutes.Put("/:id", h.HandleUpdateNotification)
	notificationRoutes.Delete("/:id", h.HandleDeleteNotification)
}

// HandleActiveNotification returns the banner currently visible. When none
// is, an empty inactive payload is returned rather than a 404 so the
// storefront can always render the response.
func (h *NotificationHandler) HandleActiveNotification(c *fiber.Ctx) error {
	notification, err := h.service.ActiveNotification()
	if err != nil {
		log.Printf("Error getting active notification: %v", err)
		return respondError(c, "Could not retrieve active notification", err)
	}
	if notification == nil {
		return c.JSON(fiber.Map{
			"message":   "",
			"is_active": false,
		})
	}
	return c.JSON(notification)
}

// HandleGetNotifications lists every notification, newest first.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	notifications, err := h.service.GetAllNotifications()
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		return respondError(c, "Could not retrieve notifications", err)
	}
	return c.JSON(notifications)
}

// HandleCreateNotification stores a new notification.
func (h *NotificationHandler) HandleCreateNotification(c *fiber.Ctx) error {
	var notification models.Notification
	if err := c.BodyParser(&notification); err != nil {
		log.Printf("Error parsing notification body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(notification); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.service.CreateNotification(&notification); err != nil {
		log.Printf("Error creating notification: %v", err)
		return respondError(c, "Could not create notification", err)
	}
	return c.Status(fiber.StatusCreated).JSON(notification)
}

// HandleUpdateNotification saves changes to a notification.
func (h *NotificationHandler) HandleUpdateNotification(c *fiber.Ctx) error {
	var notification models.Notification
	if err := c.BodyParser(&notification); err != nil {
		log.Printf("Error parsing notification body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	notification.ID = c.Params("id")

	if err := h.validate.Struct(notification); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.service.UpdateNotification(&notification); err != nil {
		log.Printf("Error updating notification %s: %v", notification.ID, err)
		return respondError(c, "Could not update notification", err)
	}
	return c.JSON(notification)
}

// HandleDeleteNotification removes a notification.
func (h *NotificationHandler) HandleDeleteNotification(c *fiber.Ctx) error {
	notificationID := c.Params("id")
	if err := h.service.DeleteNotification(notificationID); err != nil {
		log.Printf("Error deleting notification %s: %v", notificationID, err)
		return respondError(c, "Could not delete notification", err)
	}
	return c.JSON(fiber.Map{
		"message": "Notification deleted successfully",
	})
}
