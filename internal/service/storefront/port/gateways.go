// internal/service/storefront/port/gateways.go
package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bazaar/internal/service/storefront/domain"
)

// CartGateway 是购物车后端的出站端口。
type CartGateway interface {
	FetchCart(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	AddLine(ctx context.Context, sessionID string, productID int64, quantity int, snapshot domain.ProductSnapshot) error
	UpdateQuantity(ctx context.Context, lineID int64, quantity int) error
	// RemoveLine 对已删除的行返回 domain.ErrLineNotFound。
	RemoveLine(ctx context.Context, lineID int64) error
	Clear(ctx context.Context, sessionID string) error
}

// CouponGateway 是优惠券后端的出站端口。
type CouponGateway interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponDecision, error)
	IncrementUsage(ctx context.Context, code string) error
}

// PlacedOrder 是订单创建成功后后端返回的关键字段。
type PlacedOrder struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OrderGateway 是订单后端的出站端口。
type OrderGateway interface {
	CreateOrder(ctx context.Context, submission *domain.OrderSubmission) (*PlacedOrder, error)
}

// CatalogGateway 是商品目录的出站端口，加购时用来取商品快照。
type CatalogGateway interface {
	GetProduct(ctx context.Context, productID int64) (*domain.ProductSnapshot, error)
}
