// internal/service/coupon/domain/coupon.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType 定义了优惠的计算方式。
type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "PERCENTAGE"   // 按订单金额的百分比减免
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT" // 固定金额减免
)

// Coupon 是优惠券聚合的根实体。
// 一张券由一组资格约束（有效期、最低订单金额、用量上限）
// 和一个折扣规则（类型 + 数值 + 百分比封顶金额）构成。
type Coupon struct {
	ID            int64
	Code          string // 匹配时不区分大小写，仓储层统一按大写存取
	Description   string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal

	MinimumOrderAmount    decimal.NullDecimal // 可选：低于该金额不可用
	MaximumDiscountAmount decimal.NullDecimal // 可选：百分比折扣的封顶金额
	ExpirationDate        *time.Time          // 可选：严格早于当前时间视为过期
	MaxUsageCount         *int                // 可选：用量上限
	UsageCount            int
	IsActive              bool

	// RuleDefinition 是一条可选的 CEL 表达式，在固定校验之外
	// 追加管理员自定义的适用条件。为空表示无附加条件。
	RuleDefinition string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidationResult 是一次校验的完整结论。
// 每次调用都重新计算，不缓存、不原地修改。
type ValidationResult struct {
	IsValid        bool
	Message        string
	DiscountAmount decimal.Decimal
	Coupon         *Coupon
}

// invalid 构造一个折扣为零的失败结论。
func invalid(message string) ValidationResult {
	return ValidationResult{IsValid: false, Message: message, DiscountAmount: decimal.Zero}
}

// NormalizeCode 统一优惠码的匹配形态：去掉首尾空白并转为大写。
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate 按固定顺序评估一张券对给定订单金额的可用性，
// 任何一条不满足立即短路返回对应原因。
// 折扣金额满足 0 <= discount <= subtotal，且受封顶金额约束。
func (c *Coupon) Validate(subtotal decimal.Decimal, now time.Time) ValidationResult {
	if !c.IsActive {
		return invalid("coupon is not active")
	}
	if c.ExpirationDate != nil && c.ExpirationDate.Before(now) {
		return invalid("coupon has expired")
	}
	if c.MaxUsageCount != nil && c.UsageCount >= *c.MaxUsageCount {
		return invalid("coupon usage limit reached")
	}
	if c.MinimumOrderAmount.Valid && subtotal.LessThan(c.MinimumOrderAmount.Decimal) {
		return invalid(fmt.Sprintf("order amount must be at least %s to use this coupon", c.MinimumOrderAmount.Decimal.StringFixed(2)))
	}

	discount := c.discountFor(subtotal)
	return ValidationResult{
		IsValid:        true,
		Message:        fmt.Sprintf("coupon applied, you save %s", discount.StringFixed(2)),
		DiscountAmount: discount,
		Coupon:         c,
	}
}

// discountFor 计算并夹取折扣金额：
// 先按类型算出原始折扣，再依次用订单金额和封顶金额收紧，
// 保证折扣永远不会把应付总额变成负数。
func (c *Coupon) discountFor(subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	default:
		discount = c.DiscountValue
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if c.MaximumDiscountAmount.Valid && discount.GreaterThan(c.MaximumDiscountAmount.Decimal) {
		discount = c.MaximumDiscountAmount.Decimal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return discount
}
