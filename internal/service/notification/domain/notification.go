// internal/service/notification/domain/notification.go
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlacedEvent 是订单服务发布的下单事件。
type OrderPlacedEvent struct {
	OrderID       int64           `json:"orderId"`
	OrderNumber   string          `json:"orderNumber"`
	SessionID     string          `json:"sessionId"`
	CustomerEmail string          `json:"customerEmail"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CouponCode    string          `json:"couponCode,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Notifier 是订单确认通知的发送端口。
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error
}
