// internal/service/order/application/dto.go
package application

import (
	"github.com/shopspring/decimal"
)

// OrderItemRequest 是下单请求中的一行商品。
type OrderItemRequest struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// CreateOrderRequest 是下单接口的请求体。
// 价格与折扣金额由调用方在下单时刻确定并随请求快照进来。
type CreateOrderRequest struct {
	SessionID       string             `json:"sessionId"`
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	ShippingAddress string             `json:"shippingAddress"`
	Items           []OrderItemRequest `json:"items"`
	CouponCode      string             `json:"couponCode,omitempty"`
	DiscountAmount  decimal.Decimal    `json:"discountAmount"`
}

// UpdateStatusRequest 是状态迁移接口的请求体。
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
