package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bazaar/internal/service/storefront/domain"
	"bazaar/internal/service/storefront/port"
)

type stubCouponGateway struct {
	mu           sync.Mutex
	decision     *domain.CouponDecision
	incrementErr error
	increments   []string
}

func (g *stubCouponGateway) Validate(_ context.Context, _ string, _ decimal.Decimal) (*domain.CouponDecision, error) {
	return g.decision, nil
}

func (g *stubCouponGateway) IncrementUsage(_ context.Context, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.incrementErr != nil {
		return g.incrementErr
	}
	g.increments = append(g.increments, code)
	return nil
}

func (g *stubCouponGateway) incrementCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.increments)
}

type stubOrderGateway struct {
	mu          sync.Mutex
	err         error
	submissions []*domain.OrderSubmission
}

func (g *stubOrderGateway) CreateOrder(_ context.Context, submission *domain.OrderSubmission) (*port.PlacedOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.submissions = append(g.submissions, submission)
	return &port.PlacedOrder{
		ID:          int64(len(g.submissions)),
		OrderNumber: "ORD-TEST-000001",
		TotalAmount: submission.TotalAmount,
		CreatedAt:   time.Now(),
	}, nil
}

func (g *stubOrderGateway) submissionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.submissions)
}

func loadedHolder(t *testing.T, gateway *stubCartGateway) *CartHolder {
	t.Helper()
	holder := newHolder(gateway)
	require.NoError(t, holder.AddLine(context.Background(), 10, 2, domain.ProductSnapshot{Name: "Widget", Price: dec("19.99")}))
	require.NoError(t, holder.Refresh(context.Background()))
	return holder
}

func validSubmit() *SubmitOrderRequest {
	return &SubmitOrderRequest{
		CustomerName:    "Jamie Doe",
		CustomerEmail:   "jamie@example.com",
		ShippingAddress: "1 Main St",
	}
}

func TestSubmitOrder(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	orders := &stubOrderGateway{}
	coupons := &stubCouponGateway{}
	svc := NewCheckoutService(coupons, orders, otel.Tracer("test"))

	placed, err := svc.SubmitOrder(context.Background(), holder, validSubmit())
	require.NoError(t, err)
	assert.Equal(t, "ORD-TEST-000001", placed.OrderNumber)
	assert.True(t, placed.TotalAmount.Equal(dec("39.98")))

	// 下单成功后购物车被异步清空
	assert.Eventually(t, func() bool {
		return len(holder.Snapshot()) == 0 && cartGW.clearCalls == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitOrder_EmptyShippingAddressRejectedBeforeNetwork(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	orders := &stubOrderGateway{}
	svc := NewCheckoutService(&stubCouponGateway{}, orders, otel.Tracer("test"))

	req := validSubmit()
	req.ShippingAddress = "   "
	_, err := svc.SubmitOrder(context.Background(), holder, req)

	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "shippingAddress", fieldErr.Field)

	// 没有发起任何下单调用，购物车原样保留
	assert.Equal(t, 0, orders.submissionCount())
	assert.Len(t, holder.Snapshot(), 1)
	assert.Equal(t, 0, cartGW.clearCalls)
}

func TestSubmitOrder_FailedIncrementStillReportsSuccess(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	orders := &stubOrderGateway{}
	coupons := &stubCouponGateway{
		decision:     &domain.CouponDecision{IsValid: true, Message: "ok", DiscountAmount: dec("5")},
		incrementErr: errors.New("coupon service down"),
	}
	svc := NewCheckoutService(coupons, orders, otel.Tracer("test"))

	req := validSubmit()
	req.CouponCode = "SAVE5"
	placed, err := svc.SubmitOrder(context.Background(), holder, req)

	// 用量累加失败不影响已经成功的订单
	require.NoError(t, err)
	assert.True(t, placed.TotalAmount.Equal(dec("34.98")))

	// 购物车仍然被清空
	assert.Eventually(t, func() bool {
		return cartGW.clearCalls == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitOrder_ValidCouponIncrementsUsageOnce(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	orders := &stubOrderGateway{}
	coupons := &stubCouponGateway{
		decision: &domain.CouponDecision{IsValid: true, Message: "ok", DiscountAmount: dec("5")},
	}
	svc := NewCheckoutService(coupons, orders, otel.Tracer("test"))

	req := validSubmit()
	req.CouponCode = "SAVE5"
	_, err := svc.SubmitOrder(context.Background(), holder, req)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return coupons.incrementCount() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitOrder_InvalidCouponIsDroppedSilently(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	orders := &stubOrderGateway{}
	coupons := &stubCouponGateway{
		decision: &domain.CouponDecision{IsValid: false, Message: "coupon has expired", DiscountAmount: decimal.Zero},
	}
	svc := NewCheckoutService(coupons, orders, otel.Tracer("test"))

	req := validSubmit()
	req.CouponCode = "EXPIRED"
	placed, err := svc.SubmitOrder(context.Background(), holder, req)
	require.NoError(t, err)

	// 失效的优惠被略去：全价下单，不累加用量
	assert.True(t, placed.TotalAmount.Equal(dec("39.98")))
	require.Equal(t, 1, orders.submissionCount())
	assert.Empty(t, orders.submissions[0].AppliedCouponCode)

	assert.Eventually(t, func() bool {
		return cartGW.clearCalls == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, coupons.incrementCount())
}

func TestSubmitOrder_OrderFailureLeavesCartForRetry(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	orders := &stubOrderGateway{err: errors.New("order service down")}
	svc := NewCheckoutService(&stubCouponGateway{}, orders, otel.Tracer("test"))

	_, err := svc.SubmitOrder(context.Background(), holder, validSubmit())
	require.Error(t, err)

	// 提交载荷被丢弃，购物车不动，可原样重试
	assert.Len(t, holder.Snapshot(), 1)
	assert.Equal(t, 0, cartGW.clearCalls)
}

func TestApplyCoupon_UsesCurrentSubtotal(t *testing.T) {
	cartGW := newStubCartGateway()
	holder := loadedHolder(t, cartGW)
	coupons := &stubCouponGateway{
		decision: &domain.CouponDecision{IsValid: true, Message: "ok", DiscountAmount: dec("4")},
	}
	svc := NewCheckoutService(coupons, &stubOrderGateway{}, otel.Tracer("test"))

	decision, err := svc.ApplyCoupon(context.Background(), holder, "SAVE4")
	require.NoError(t, err)
	assert.True(t, decision.IsValid)
	assert.True(t, decision.DiscountAmount.Equal(dec("4")))

	// 校验不消耗用量
	assert.Equal(t, 0, coupons.incrementCount())
}
