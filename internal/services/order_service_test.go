package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"
	"bazaar/pkg/steadfast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCourier is a controllable ShipmentRegistrar.
type stubCourier struct {
	mu          sync.Mutex
	consignment *steadfast.Consignment
	createErr   error
	status      string
	statusErr   error
	createCalls int
}

func (c *stubCourier) CreateConsignment(ctx context.Context, req steadfast.ConsignmentRequest) (*steadfast.Consignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createCalls++
	if c.createErr != nil {
		return nil, c.createErr
	}
	return c.consignment, nil
}

func (c *stubCourier) StatusByConsignment(ctx context.Context, consignmentID int64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.statusErr
}

func (c *stubCourier) set(consignment *steadfast.Consignment, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consignment = consignment
	c.createErr = err
}

func (c *stubCourier) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.createCalls
}

// stubPublisher records every published event body.
type stubPublisher struct {
	mu     sync.Mutex
	bodies []string
}

func (p *stubPublisher) Publish(exchange, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, string(body))
	return nil
}

func (p *stubPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

type checkoutFixture struct {
	service   *services.OrderService
	products  *repositories.MockProductRepository
	carts     *repositories.MockCartRepository
	orders    *repositories.MockOrderRepository
	courier   *stubCourier
	publisher *stubPublisher
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository(products)
	orders := repositories.NewMockOrderRepository(products, carts)
	courier := &stubCourier{
		consignment: &steadfast.Consignment{
			ConsignmentID: 9001,
			TrackingCode:  "TRK-9001",
			Status:        "in_review",
		},
	}
	publisher := &stubPublisher{}
	return &checkoutFixture{
		service:   services.NewOrderService(orders, products, carts, courier, publisher, nil),
		products:  products,
		carts:     carts,
		orders:    orders,
		courier:   courier,
		publisher: publisher,
	}
}

// seedCart creates a product with the given stock and price and puts
// quantity units of it into a cart for sessionKey.
func (f *checkoutFixture) seedCart(t *testing.T, sessionKey string, stock int, price float64, quantity int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         "Classic Panjabi",
		Category:     "panjabi",
		RegularPrice: price,
		Stock:        stock,
		IsActive:     true,
	}
	require.NoError(t, f.products.Create(product))

	cart, err := f.carts.GetOrCreate(sessionKey)
	require.NoError(t, err)
	require.NoError(t, f.carts.CreateItem(&models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  quantity,
	}))
	return product
}

func checkoutRequest() services.CheckoutRequest {
	return services.CheckoutRequest{
		CustomerName:  "Rahim Uddin",
		CustomerPhone: "01712345678",
		Address:       "12 Test Road, Dhaka",
		District:      "Dhaka",
	}
}

func TestCheckoutSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedCart(t, "session-1", 5, 10.00, 3)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	assert.Equal(t, 30.00, order.TotalAmount)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 10.00, order.Items[0].UnitPrice)

	// Stock was decremented exactly once.
	updated, err := f.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)

	// The cart is gone.
	_, err = f.carts.GetBySessionKey("session-1")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	// Shipment registration ran in the background.
	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9001), stored.ConsignmentID)
	assert.Equal(t, "TRK-9001", stored.TrackingCode)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)

	events := f.publisher.published()
	require.Len(t, events, 2)
	assert.Contains(t, events[0], "order.created")
	assert.Contains(t, events[1], "order.shipped")
}

func TestCheckoutUsesOfferPrice(t *testing.T) {
	f := newCheckoutFixture(t)
	offer := 7.50
	product := &models.Product{
		Name:         "Discounted Shirt",
		RegularPrice: 10.00,
		OfferPrice:   &offer,
		Stock:        5,
		IsActive:     true,
	}
	require.NoError(t, f.products.Create(product))

	cart, err := f.carts.GetOrCreate("session-1")
	require.NoError(t, err)
	require.NoError(t, f.carts.CreateItem(&models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  2,
	}))

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	assert.Equal(t, 15.00, order.TotalAmount)
	assert.Equal(t, 7.50, order.Items[0].UnitPrice)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedCart(t, "session-1", 2, 10.00, 3)

	_, err := f.service.Checkout("session-1", checkoutRequest())
	require.Error(t, err)

	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, product.ID, stockErr.Shortages[0].ProductID)
	assert.Equal(t, 3, stockErr.Shortages[0].Requested)
	assert.Equal(t, 2, stockErr.Shortages[0].Available)

	// Nothing was mutated: stock intact, cart intact, no order stored.
	updated, err := f.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)

	cart, err := f.carts.GetBySessionKey("session-1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	orders, err := f.orders.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.publisher.published())
	assert.Equal(t, 0, f.courier.calls())
}

func TestCheckoutSequentialDrainsStock(t *testing.T) {
	f := newCheckoutFixture(t)
	product := f.seedCart(t, "session-1", 5, 10.00, 3)

	_, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	// Second shopper wants the same quantity; only 2 remain.
	cart, err := f.carts.GetOrCreate("session-2")
	require.NoError(t, err)
	require.NoError(t, f.carts.CreateItem(&models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  3,
	}))

	_, err = f.service.Checkout("session-2", checkoutRequest())
	var stockErr *services.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	updated, err := f.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	// No cart at all for this session.
	_, err := f.service.Checkout("session-none", checkoutRequest())
	assert.True(t, errors.Is(err, services.ErrCartEmpty))

	// A cart that exists but has no items.
	_, err = f.carts.GetOrCreate("session-empty")
	require.NoError(t, err)
	_, err = f.service.Checkout("session-empty", checkoutRequest())
	assert.True(t, errors.Is(err, services.ErrCartEmpty))
}

func TestCheckoutSurvivesCourierFailure(t *testing.T) {
	f := newCheckoutFixture(t)
	f.courier.set(nil, &steadfast.APIError{Kind: steadfast.KindNetwork, Message: "connection refused"})
	product := f.seedCart(t, "session-1", 5, 10.00, 3)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	// The order committed and the stock decrement stuck.
	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, stored.Status)
	assert.Equal(t, int64(0), stored.ConsignmentID)
	assert.Empty(t, stored.TrackingCode)

	updated, err := f.products.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)

	// Once the courier recovers, registration can be resubmitted.
	f.courier.set(&steadfast.Consignment{ConsignmentID: 9002, TrackingCode: "TRK-9002", Status: "in_review"}, nil)
	require.NoError(t, f.service.RegisterShipment(order.ID))

	stored, err = f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)
	assert.Equal(t, int64(9002), stored.ConsignmentID)
	assert.Equal(t, "TRK-9002", stored.TrackingCode)
}

func TestRegisterShipmentAlreadyShipped(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "session-1", 5, 10.00, 1)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	err = f.service.RegisterShipment(order.ID)
	assert.True(t, errors.Is(err, services.ErrAlreadyShipped))
	assert.Equal(t, 1, f.courier.calls())
}

func TestSyncCourierStatus(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "session-1", 5, 10.00, 1)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	f.courier.status = "delivered"
	synced, err := f.service.SyncCourierStatus(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, synced.Status)
	assert.Equal(t, "delivered", synced.CourierStatus)

	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)
	assert.Equal(t, "delivered", stored.CourierStatus)
}

func TestSyncCourierStatusPersistsRefresh(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "session-1", 5, 10.00, 1)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	// Registration stored the courier's initial status.
	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	require.Equal(t, "in_review", stored.CourierStatus)

	// A later sync reports an intermediate status; the order stays shipped
	// but re-reading it must show the refreshed courier status.
	f.courier.status = "delivered_approval_pending"
	synced, err := f.service.SyncCourierStatus(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, synced.Status)
	assert.Equal(t, "delivered_approval_pending", synced.CourierStatus)

	stored, err = f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "delivered_approval_pending", stored.CourierStatus)
	assert.Equal(t, models.OrderStatusShipped, stored.Status)
}

func TestSyncCourierStatusNotShipped(t *testing.T) {
	f := newCheckoutFixture(t)
	f.courier.set(nil, steadfast.ErrDisabled)
	f.seedCart(t, "session-1", 5, 10.00, 1)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	_, err = f.service.SyncCourierStatus(order.ID)
	assert.True(t, errors.Is(err, services.ErrNotShipped))
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newCheckoutFixture(t)
	f.seedCart(t, "session-1", 5, 10.00, 1)

	order, err := f.service.Checkout("session-1", checkoutRequest())
	require.NoError(t, err)
	f.service.Wait()

	require.NoError(t, f.service.UpdateOrderStatus(order.ID, models.OrderStatusCancelled))
	stored, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)

	err = f.service.UpdateOrderStatus(order.ID, "teleported")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}
