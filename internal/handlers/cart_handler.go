package handlers

import (
	"log"

	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for session carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
}

// HandleGetCart returns the session's cart, creating one when the session
// is new.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(sessionKey(c))
	if err != nil {
		log.Printf("Error getting cart: %v", err)
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(cartResponse(cart))
}

// AddItemRequest is the body for adding a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
}

// HandleAddItem adds a product to the session's cart, merging quantities
// when the product is already in it.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	cart, err := h.service.AddItem(sessionKey(c), req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding item to cart: %v", err)
		return respondError(c, "Could not add item to cart", err)
	}
	return c.JSON(cartResponse(cart))
}

// UpdateItemRequest is the body for changing a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateItem sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update-item body: %v", err)
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

	cart, err := h.service.UpdateItem(sessionKey(c), c.Params("id"), req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item %s: %v", c.Params("id"), err)
		return respondError(c, "Could not update cart item", err)
	}
	return c.JSON(cartResponse(cart))
}

// HandleRemoveItem deletes a single line from the session's cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(sessionKey(c), c.Params("id"))
	if err != nil {
		log.Printf("Error removing cart item %s: %v", c.Params("id"), err)
		return respondError(c, "Could not remove cart item", err)
	}
	return c.JSON(cartResponse(cart))
}

// HandleClearCart deletes the session's cart entirely.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.Clear(sessionKey(c)); err != nil {
		log.Printf("Error clearing cart: %v", err)
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}

// cartResponse decorates a cart with its computed total and item count.
func cartResponse(cart *models.Cart) fiber.Map {
	return fiber.Map{
		"cart":       cart,
		"total":      cart.Total(),
		"item_count": cart.ItemCount(),
	}
}
