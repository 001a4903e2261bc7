package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bazaar/internal/service/order/domain"
)

type stubRepo struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (r *stubRepo) Create(_ context.Context, order *domain.Order) error {
	order.ID = r.nextID
	r.nextID++
	r.orders[order.ID] = order
	return nil
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *stubRepo) List(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) error {
	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type stubPublisher struct {
	events []*domain.OrderPlacedEvent
	err    error
}

func (p *stubPublisher) PublishOrderPlaced(_ context.Context, event *domain.OrderPlacedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		SessionID:       "session_1700000000000_abc123def",
		CustomerName:    "Jamie Doe",
		CustomerEmail:   "jamie@example.com",
		ShippingAddress: "1 Main St",
		Items: []OrderItemRequest{
			{ProductID: 1, ProductName: "Widget", Price: dec("19.99"), Quantity: 2},
		},
	}
}

func newService(repo domain.OrderRepository, pub domain.EventPublisher) *OrderService {
	return NewOrderService(repo, pub, otel.Tracer("test"))
}

func TestCreateOrder(t *testing.T) {
	repo := newStubRepo()
	pub := &stubPublisher{}
	svc := newService(repo, pub)

	order, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	assert.True(t, order.Subtotal.Equal(dec("39.98")))
	assert.True(t, order.TotalAmount.Equal(dec("39.98")))

	require.Len(t, pub.events, 1)
	assert.Equal(t, order.OrderNumber, pub.events[0].OrderNumber)
}

func TestCreateOrder_MissingCustomerFields(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo, &stubPublisher{})

	mutations := []func(*CreateOrderRequest){
		func(r *CreateOrderRequest) { r.CustomerName = "  " },
		func(r *CreateOrderRequest) { r.CustomerEmail = "" },
		func(r *CreateOrderRequest) { r.ShippingAddress = "" },
	}
	for i, mutate := range mutations {
		req := validRequest()
		mutate(req)
		_, err := svc.CreateOrder(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrMissingCustomerInfo, "case %d", i)
	}
	assert.Empty(t, repo.orders)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	svc := newService(newStubRepo(), &stubPublisher{})

	req := validRequest()
	req.Items = nil
	_, err := svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
}

func TestCreateOrder_ServerRecomputesTotals(t *testing.T) {
	svc := newService(newStubRepo(), &stubPublisher{})

	req := validRequest()
	req.DiscountAmount = dec("1000") // 超过小计，被夹到小计
	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.IsZero())
	assert.True(t, order.DiscountAmount.Equal(dec("39.98")))
}

func TestCreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	repo := newStubRepo()
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := newService(repo, pub)

	order, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Len(t, repo.orders, 1)
}

func TestUpdateStatus(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo, &stubPublisher{})

	order, err := svc.CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, &UpdateStatusRequest{Status: "PROCESSING"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, &UpdateStatusRequest{Status: "DELIVERED"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), 999, &UpdateStatusRequest{Status: "PROCESSING"})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
