package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeTotals(t *testing.T) {
	order := &Order{
		Items: []OrderItem{
			{Price: dec("19.99"), Quantity: 2},
			{Price: dec("5.00"), Quantity: 1},
		},
		DiscountAmount: dec("10"),
	}

	order.ComputeTotals()

	assert.True(t, order.Subtotal.Equal(dec("44.98")))
	assert.True(t, order.DiscountAmount.Equal(dec("10")))
	assert.True(t, order.TotalAmount.Equal(dec("34.98")))
}

func TestComputeTotals_DiscountClampedToSubtotal(t *testing.T) {
	order := &Order{
		Items:          []OrderItem{{Price: dec("40"), Quantity: 1}},
		DiscountAmount: dec("100"),
	}

	order.ComputeTotals()

	assert.True(t, order.DiscountAmount.Equal(dec("40")))
	assert.True(t, order.TotalAmount.IsZero())
}

func TestComputeTotals_NegativeDiscountIgnored(t *testing.T) {
	order := &Order{
		Items:          []OrderItem{{Price: dec("40"), Quantity: 1}},
		DiscountAmount: dec("-5"),
	}

	order.ComputeTotals()

	assert.True(t, order.DiscountAmount.IsZero())
	assert.True(t, order.TotalAmount.Equal(dec("40")))
}

func TestTransition(t *testing.T) {
	order := &Order{Status: StatusPending}

	require.NoError(t, order.Transition(StatusProcessing))
	require.NoError(t, order.Transition(StatusShipped))
	require.NoError(t, order.Transition(StatusDelivered))

	// 终态不再接受任何迁移
	err := order.Transition(StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_CancelOnlyBeforeShipping(t *testing.T) {
	pending := &Order{Status: StatusPending}
	require.NoError(t, pending.Transition(StatusCancelled))

	processing := &Order{Status: StatusProcessing}
	require.NoError(t, processing.Transition(StatusCancelled))

	shipped := &Order{Status: StatusShipped}
	assert.ErrorIs(t, shipped.Transition(StatusCancelled), ErrInvalidTransition)
}

func TestTransition_UnknownStatus(t *testing.T) {
	order := &Order{Status: StatusPending}
	assert.ErrorIs(t, order.Transition(OrderStatus("TELEPORTED")), ErrInvalidStatus)
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	num := NewOrderNumber(now, 1234567)
	assert.Equal(t, "ORD-20250615-234567", num)
}
