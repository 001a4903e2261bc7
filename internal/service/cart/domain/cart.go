// internal/service/cart/domain/cart.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 是购物车中的一行。
// Price 是加购时刻的商品单价快照，之后商品调价不影响已有行。
type CartItem struct {
	ID          int64           `json:"id"`
	SessionID   string          `json:"sessionId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// LineTotal 返回该行的小计金额。
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
