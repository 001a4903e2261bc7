package domain

import (
	"testing"

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

func sampleLines() []CartLine {
	return []CartLine{
		{ID: 1, ProductID: 10, ProductName: "Widget", UnitPrice: dec("19.99"), Quantity: 2},
		{ID: 2, ProductID: 20, ProductName: "Gadget", UnitPrice: dec("5.00"), Quantity: 3},
	}
}

func TestSubtotalAndItemCount(t *testing.T) {
	lines := sampleLines()

	assert.True(t, Subtotal(lines).Equal(dec("54.98")))
	assert.Equal(t, 5, ItemCount(lines))
}

func TestSubtotalAndItemCount_ArePure(t *testing.T) {
	lines := sampleLines()

	// 同一份列表算多少次都是同一个数，且列表本身不被改动
	first := Subtotal(lines)
	second := Subtotal(lines)
	assert.True(t, first.Equal(second))
	assert.Equal(t, ItemCount(lines), ItemCount(lines))
	assert.Equal(t, sampleLines(), lines)
}

func TestSubtotal_EmptyCartIsZero(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())
	assert.Equal(t, 0, ItemCount(nil))
}

func validInfo() CustomerInfo {
	return CustomerInfo{
		Name:            "Jamie Doe",
		Email:           "jamie@example.com",
		ShippingAddress: "1 Main St",
	}
}

func TestBuildSubmission(t *testing.T) {
	submission, err := BuildSubmission("session_1_abc", validInfo(), sampleLines(), nil)
	require.NoError(t, err)

	assert.Equal(t, "session_1_abc", submission.SessionID)
	assert.True(t, submission.Subtotal.Equal(dec("54.98")))
	assert.True(t, submission.TotalAmount.Equal(dec("54.98")))
	assert.True(t, submission.DiscountAmount.IsZero())
	assert.Empty(t, submission.AppliedCouponCode)

	// 行是下单时刻的快照
	require.Len(t, submission.Items, 2)
	assert.Equal(t, "Widget", submission.Items[0].ProductName)
	assert.True(t, submission.Items[0].Price.Equal(dec("19.99")))
	assert.Equal(t, 2, submission.Items[0].Quantity)
}

func TestBuildSubmission_WithCoupon(t *testing.T) {
	coupon := &AppliedCoupon{Code: "SAVE10", DiscountAmount: dec("5.50")}
	submission, err := BuildSubmission("s1", validInfo(), sampleLines(), coupon)
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", submission.AppliedCouponCode)
	assert.True(t, submission.DiscountAmount.Equal(dec("5.50")))
	assert.True(t, submission.TotalAmount.Equal(dec("49.48")))
}

func TestBuildSubmission_DiscountClampedToSubtotal(t *testing.T) {
	coupon := &AppliedCoupon{Code: "HUGE", DiscountAmount: dec("1000")}
	submission, err := BuildSubmission("s1", validInfo(), sampleLines(), coupon)
	require.NoError(t, err)

	assert.True(t, submission.DiscountAmount.Equal(dec("54.98")))
	assert.True(t, submission.TotalAmount.IsZero())
}

func TestBuildSubmission_FieldValidation(t *testing.T) {
	cases := []struct {
		name  string
		info  CustomerInfo
		lines []CartLine
		field string
	}{
		{"missing name", CustomerInfo{Email: "a@b.c", ShippingAddress: "x"}, sampleLines(), "customerName"},
		{"missing email", CustomerInfo{Name: "J", ShippingAddress: "x"}, sampleLines(), "customerEmail"},
		{"blank address", CustomerInfo{Name: "J", Email: "a@b.c", ShippingAddress: "   "}, sampleLines(), "shippingAddress"},
		{"empty cart", validInfo(), nil, "items"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildSubmission("s1", tc.info, tc.lines, nil)
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
}
