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

func intPtr(i int) *int { return &i }

func TestValidate_PercentageWithCap(t *testing.T) {
	// 1000 的 10% 是 100，但封顶 50
	coupon := &Coupon{
		Code:                  "SUMMER10",
		DiscountType:          DiscountTypePercentage,
		DiscountValue:         dec("10"),
		MaximumDiscountAmount: decimal.NewNullDecimal(dec("50")),
		IsActive:              true,
	}

	result := coupon.Validate(dec("1000"), time.Now())

	require.True(t, result.IsValid)
	assert.True(t, result.DiscountAmount.Equal(dec("50")), "discount = %s", result.DiscountAmount)
}

func TestValidate_FixedAmountClampedToSubtotal(t *testing.T) {
	// 固定减 100，订单只有 40：折扣被夹到 40，总额为 0 而不是负数
	coupon := &Coupon{
		Code:          "TAKE100",
		DiscountType:  DiscountTypeFixedAmount,
		DiscountValue: dec("100"),
		IsActive:      true,
	}

	result := coupon.Validate(dec("40"), time.Now())

	require.True(t, result.IsValid)
	assert.True(t, result.DiscountAmount.Equal(dec("40")), "discount = %s", result.DiscountAmount)
}

func TestValidate_BelowMinimumOrderAmount(t *testing.T) {
	coupon := &Coupon{
		Code:               "BIG500",
		DiscountType:       DiscountTypeFixedAmount,
		DiscountValue:      dec("50"),
		MinimumOrderAmount: decimal.NewNullDecimal(dec("500")),
		IsActive:           true,
	}

	result := coupon.Validate(dec("300"), time.Now())

	require.False(t, result.IsValid)
	assert.Contains(t, result.Message, "at least")
	assert.True(t, result.DiscountAmount.IsZero())
}

func TestValidate_UsageLimitReached(t *testing.T) {
	coupon := &Coupon{
		Code:          "FIVETIMES",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("20"),
		MaxUsageCount: intPtr(5),
		UsageCount:    5,
		IsActive:      true,
	}

	// 用量到顶后无论订单金额多大都不可用
	for _, subtotal := range []string{"10", "1000", "99999"} {
		result := coupon.Validate(dec(subtotal), time.Now())
		require.False(t, result.IsValid, "subtotal %s", subtotal)
		assert.Equal(t, "coupon usage limit reached", result.Message)
	}
}

func TestValidate_Inactive(t *testing.T) {
	coupon := &Coupon{
		Code:          "OFF",
		DiscountType:  DiscountTypeFixedAmount,
		DiscountValue: dec("5"),
		IsActive:      false,
	}

	result := coupon.Validate(dec("100"), time.Now())

	require.False(t, result.IsValid)
	assert.Equal(t, "coupon is not active", result.Message)
}

func TestValidate_Expired(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	coupon := &Coupon{
		Code:           "PAST",
		DiscountType:   DiscountTypeFixedAmount,
		DiscountValue:  dec("5"),
		ExpirationDate: &yesterday,
		IsActive:       true,
	}

	result := coupon.Validate(dec("100"), time.Now())

	require.False(t, result.IsValid)
	assert.Equal(t, "coupon has expired", result.Message)
}

func TestValidate_ExpirationIsStrictlyBeforeNow(t *testing.T) {
	// 恰好等于当前时间的过期时间不算过期
	now := time.Now()
	coupon := &Coupon{
		Code:           "EDGE",
		DiscountType:   DiscountTypeFixedAmount,
		DiscountValue:  dec("5"),
		ExpirationDate: &now,
		IsActive:       true,
	}

	result := coupon.Validate(dec("100"), now)
	assert.True(t, result.IsValid)
}

func TestValidate_DiscountNeverExceedsSubtotal(t *testing.T) {
	// 0 <= D <= S 对任意组合成立
	coupons := []*Coupon{
		{DiscountType: DiscountTypePercentage, DiscountValue: dec("150"), IsActive: true},
		{DiscountType: DiscountTypePercentage, DiscountValue: dec("10"), IsActive: true},
		{DiscountType: DiscountTypeFixedAmount, DiscountValue: dec("10000"), IsActive: true},
		{DiscountType: DiscountTypeFixedAmount, DiscountValue: dec("0.01"), IsActive: true},
	}
	subtotals := []string{"0", "0.01", "39.99", "1000", "123456.78"}

	for _, c := range coupons {
		for _, s := range subtotals {
			subtotal := dec(s)
			result := c.Validate(subtotal, time.Now())
			require.True(t, result.IsValid)
			assert.False(t, result.DiscountAmount.IsNegative())
			assert.True(t, result.DiscountAmount.LessThanOrEqual(subtotal),
				"discount %s > subtotal %s", result.DiscountAmount, subtotal)
		}
	}
}

func TestValidate_IsPureAndRepeatable(t *testing.T) {
	// 校验无副作用：同一张券重复校验得到完全相同的结论，用量不变
	coupon := &Coupon{
		Code:          "PURE",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("25"),
		MaxUsageCount: intPtr(10),
		UsageCount:    3,
		IsActive:      true,
	}

	first := coupon.Validate(dec("200"), time.Now())
	second := coupon.Validate(dec("200"), time.Now())

	assert.Equal(t, first.IsValid, second.IsValid)
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.Equal(t, 3, coupon.UsageCount)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode("  save10 "))
	assert.Equal(t, "SAVE10", NormalizeCode("Save10"))
	assert.Equal(t, "", NormalizeCode("   "))
}
