package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/pkg/metrics"
	"bazaar/pkg/rabbitmq"
	"bazaar/pkg/steadfast"

	"github.com/google/uuid"
)

// EventPublisher publishes order lifecycle events to the broker.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ShipmentRegistrar is the courier surface the checkout workflow needs.
// *steadfast.Client satisfies it.
type ShipmentRegistrar interface {
	CreateConsignment(ctx context.Context, req steadfast.ConsignmentRequest) (*steadfast.Consignment, error)
	StatusByConsignment(ctx context.Context, consignmentID int64) (string, error)
}

// CheckoutRequest carries the customer and delivery details for turning a
// cart into an order.
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string `json:"customer_phone" validate:"required,max=20"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	Address       string `json:"address" validate:"required,max=250"`
	District      string `json:"district" validate:"omitempty,max=100"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
}

// OrderService handles the checkout workflow and order management.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	courier     ShipmentRegistrar
	publisher   EventPublisher
	metrics     *metrics.CheckoutMetrics

	shipments sync.WaitGroup
}

// NewOrderService creates a new OrderService. publisher and m may be nil,
// which disables event publishing and metric counting respectively.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	courier ShipmentRegistrar,
	publisher EventPublisher,
	m *metrics.CheckoutMetrics,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		courier:     courier,
		publisher:   publisher,
		metrics:     m,
	}
}

// Checkout turns the session's cart into an order.
//
// Every product is re-fetched and validated against current stock first;
// any shortfall aborts with InsufficientStockError before anything is
// written. The order insert, the stock decrements, and the cart delete
// then commit in one repository transaction; a concurrent checkout that
// drains a product between validation and commit surfaces as a stock
// conflict and rolls the whole transaction back. Courier registration
// runs after commit in the background, so a courier outage can never
// undo or delay a committed order.
func (s *OrderService) Checkout(sessionKey string, req CheckoutRequest) (*models.Order, error) {
	cart, err := s.cartRepo.GetBySessionKey(sessionKey)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartEmpty
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	var (
		totalAmount float64
		orderItems  []models.OrderItem
		shortages   []StockShortage
	)
	for _, item := range cart.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to validate cart item: %w", err)
		}
		if product.Stock < item.Quantity {
			shortages = append(shortages, StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			})
			continue
		}

		line := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.CurrentPrice(), // price read now, snapshotted
		}
		orderItems = append(orderItems, line)
		totalAmount += line.Subtotal()
	}
	if len(shortages) > 0 {
		if s.metrics != nil {
			s.metrics.StockConflicts.Inc()
		}
		return nil, &InsufficientStockError{Shortages: shortages}
	}

	order := &models.Order{
		ID:            uuid.New().String(),
		SessionKey:    sessionKey,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Address:       req.Address,
		District:      req.District,
		Notes:         req.Notes,
		Items:         orderItems,
		TotalAmount:   totalAmount,
		Status:        models.OrderStatusCreated,
	}

	if err := s.orderRepo.Place(order, cart.ID); err != nil {
		if errors.Is(err, repositories.ErrStockConflict) {
			if s.metrics != nil {
				s.metrics.StockConflicts.Inc()
			}
			return nil, s.conflictToShortages(orderItems, err)
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}

	s.publishEvent("order.created", order)

	// Courier registration is intentionally detached: the order exists
	// regardless of how this goes, and a failure leaves a retry path.
	s.shipments.Add(1)
	go func() {
		defer s.shipments.Done()
		if err := s.RegisterShipment(order.ID); err != nil {
			log.Printf("Warning: shipment registration for order %s failed: %v", order.ID, err)
		}
	}()

	return order, nil
}

// conflictToShortages rebuilds an InsufficientStockError from the current
// stock levels after the transactional decrement lost a race.
func (s *OrderService) conflictToShortages(items []models.OrderItem, placeErr error) error {
	var shortages []StockShortage
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			continue
		}
		if product.Stock < item.Quantity {
			shortages = append(shortages, StockShortage{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   item.Quantity,
				Available:   product.Stock,
			})
		}
	}
	if len(shortages) == 0 {
		return fmt.Errorf("failed to place order: %w", placeErr)
	}
	return &InsufficientStockError{Shortages: shortages}
}

// RegisterShipment registers an existing order with the courier and, on
// success, attaches the consignment and marks the order shipped. It never
// touches stock, so a failed registration can be resubmitted at any time.
func (s *OrderService) RegisterShipment(orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.ConsignmentID != 0 {
		return ErrAlreadyShipped
	}

	descriptions := make([]string, 0, len(order.Items))
	totalLot := 0
	for _, item := range order.Items {
		descriptions = append(descriptions, fmt.Sprintf("%dx %s", item.Quantity, item.ProductName))
		totalLot += item.Quantity
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	consignment, err := s.courier.CreateConsignment(ctx, steadfast.ConsignmentRequest{
		Invoice:          order.Invoice(),
		RecipientName:    order.CustomerName,
		RecipientPhone:   order.CustomerPhone,
		RecipientAddress: order.Address,
		CODAmount:        order.TotalAmount,
		RecipientEmail:   order.CustomerEmail,
		Note:             order.Notes,
		ItemDescription:  strings.Join(descriptions, "; "),
		TotalLot:         totalLot,
		DeliveryType:     0, // home delivery
	})
	if err != nil {
		if errors.Is(err, steadfast.ErrDisabled) {
			s.countShipment("disabled")
		} else {
			s.countShipment("failure")
		}
		return err
	}

	if err := s.orderRepo.SetShipment(order.ID, consignment.ConsignmentID, consignment.TrackingCode, consignment.Status); err != nil {
		return fmt.Errorf("consignment %d created but not recorded: %w", consignment.ConsignmentID, err)
	}
	s.countShipment("success")

	order.ConsignmentID = consignment.ConsignmentID
	order.TrackingCode = consignment.TrackingCode
	order.CourierStatus = consignment.Status
	order.Status = models.OrderStatusShipped
	s.publishEvent("order.shipped", order)
	return nil
}

// SyncCourierStatus refreshes an order's courier status from the courier
// and promotes the order to delivered when the courier says so.
func (s *OrderService) SyncCourierStatus(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.ConsignmentID == 0 {
		return nil, ErrNotShipped
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	courierStatus, err := s.courier.StatusByConsignment(ctx, order.ConsignmentID)
	if err != nil {
		return nil, err
	}

	status := order.Status
	if courierStatus == "delivered" {
		status = models.OrderStatusDelivered
	}
	if err := s.orderRepo.UpdateCourierStatus(order.ID, courierStatus, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.CourierStatus = courierStatus
	return order, nil
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !models.ValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}

// Wait blocks until in-flight shipment registrations finish. Called during
// graceful shutdown.
func (s *OrderService) Wait() {
	s.shipments.Wait()
}

func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"event":       eventType,
		"order_id":    order.ID,
		"session_key": order.SessionKey,
		"status":      order.Status,
		"total":       order.TotalAmount,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish("", rabbitmq.OrderQueue, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}

func (s *OrderService) countShipment(result string) {
	if s.metrics != nil {
		s.metrics.Shipments.WithLabelValues(result).Inc()
	}
}
