// internal/service/order/domain/repository.go
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderRepository 定义了订单聚合的持久化端口。
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) error
	Delete(ctx context.Context, id int64) error
}

// OrderPlacedEvent 在订单创建成功后发布。
type OrderPlacedEvent struct {
	OrderID       int64           `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	SessionID     string          `json:"sessionId"`
	CustomerEmail string          `json:"customerEmail"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CouponCode    string          `json:"couponCode,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// EventPublisher 是订单领域事件的发布端口。
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error
}
