// internal/service/storefront/domain/cart.go
package domain

import (
	"github.com/shopspring/decimal"
)

// CartLine 是门店侧看到的一行购物车。
// ProductName 与 UnitPrice 是后端在加购时刻固化的商品快照。
type CartLine struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

// Subtotal 是当前行列表的小计：Σ(单价 × 数量)。
// 纯函数，不碰任何共享状态。
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount 是当前行列表的件数：Σ(数量)。
func ItemCount(lines []CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// CouponDecision 是一次优惠码校验的结论。
// 每次校验都重新计算，从不缓存。
type CouponDecision struct {
	IsValid        bool            `json:"isValid"`
	Message        string          `json:"message"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// ProductSnapshot 是加购时刻的商品信息快照。
type ProductSnapshot struct {
	Name  string
	Price decimal.Decimal
}
