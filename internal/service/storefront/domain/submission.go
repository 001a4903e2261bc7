// internal/service/storefront/domain/submission.go
package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CustomerInfo 是结账表单中的客户信息。
type CustomerInfo struct {
	Name            string
	Email           string
	ShippingAddress string
}

// AppliedCoupon 是结账时刻仍然有效的已套用优惠。
type AppliedCoupon struct {
	Code           string
	DiscountAmount decimal.Decimal
}

// SubmissionLine 是订单提交载荷中的一行，
// 固化下单时刻的商品名与单价。
type SubmissionLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// OrderSubmission 是一次性构建的订单提交载荷。
// 构建之后不再修改：提交失败时整个载荷被丢弃，购物车保持原样供重试。
type OrderSubmission struct {
	SessionID         string           `json:"sessionId"`
	CustomerName      string           `json:"customerName"`
	CustomerEmail     string           `json:"customerEmail"`
	ShippingAddress   string           `json:"shippingAddress"`
	Items             []SubmissionLine `json:"items"`
	Subtotal          decimal.Decimal  `json:"subtotal"`
	DiscountAmount    decimal.Decimal  `json:"discountAmount"`
	AppliedCouponCode string           `json:"couponCode,omitempty"`
	TotalAmount       decimal.Decimal  `json:"totalAmount"`
}

// FieldError 是提交前的字段级校验错误，出现即表示没有发起任何网络调用。
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// BuildSubmission 把当前购物车快照、客户信息和已套用的优惠
// 组装成订单提交载荷。任何前置条件不满足都返回字段级错误。
func BuildSubmission(sessionID string, info CustomerInfo, lines []CartLine, coupon *AppliedCoupon) (*OrderSubmission, error) {
	if strings.TrimSpace(info.Name) == "" {
		return nil, &FieldError{Field: "customerName"}
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, &FieldError{Field: "customerEmail"}
	}
	if strings.TrimSpace(info.ShippingAddress) == "" {
		return nil, &FieldError{Field: "shippingAddress"}
	}
	if len(lines) == 0 {
		return nil, &FieldError{Field: "items"}
	}

	items := make([]SubmissionLine, len(lines))
	for i, line := range lines {
		items[i] = SubmissionLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.UnitPrice,
			Quantity:    line.Quantity,
		}
	}

	subtotal := Subtotal(lines)
	submission := &OrderSubmission{
		SessionID:       sessionID,
		CustomerName:    strings.TrimSpace(info.Name),
		CustomerEmail:   strings.TrimSpace(info.Email),
		ShippingAddress: strings.TrimSpace(info.ShippingAddress),
		Items:           items,
		Subtotal:        subtotal,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     subtotal,
	}

	if coupon != nil {
		discount := coupon.DiscountAmount
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		submission.DiscountAmount = discount
		submission.AppliedCouponCode = coupon.Code
		submission.TotalAmount = subtotal.Sub(discount)
	}
	return submission, nil
}
