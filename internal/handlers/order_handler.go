package handlers

import (
	"log"

	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and order management.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public checkout route.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
}

// RegisterAdminRoutes registers the order management routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/ship", h.HandleRegisterShipment)
	orderRoutes.Get("/:id/courier-status", h.HandleCourierStatus)
}

// HandleCheckout turns the session's cart into an order. The order is
// committed before the courier is involved; courier registration runs in
// the background and its failure never surfaces here.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	order, err := h.service.Checkout(sessionKey(c), req)
	if err != nil {
		log.Printf("Error during checkout: %v", err)
		return respondError(c, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order %s: %v", orderID, err)
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status string `json:"status"`
	}

	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.service.UpdateOrderStatus(orderID, updateData.Status); err != nil {
		log.Printf("Error updating status for order %s: %v", orderID, err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"status":  updateData.Status,
	})
}

// HandleRegisterShipment resubmits an order to the courier. Stock is not
// re-validated; the order already owns its units.
func (h *OrderHandler) HandleRegisterShipment(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.RegisterShipment(orderID); err != nil {
		log.Printf("Error registering shipment for order %s: %v", orderID, err)
		return respondError(c, "Could not register shipment", err)
	}

	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		return respondError(c, "Shipment registered but order could not be reloaded", err)
	}
	return c.JSON(order)
}

// HandleCourierStatus refreshes and returns the courier's view of an
// order's delivery.
func (h *OrderHandler) HandleCourierStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.SyncCourierStatus(orderID)
	if err != nil {
		log.Printf("Error syncing courier status for order %s: %v", orderID, err)
		return respondError(c, "Could not fetch courier status", err)
	}
	return c.JSON(order)
}
