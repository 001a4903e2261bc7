// internal/service/cart/infrastructure/models.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"bazaar/internal/service/cart/domain"
)

// CartItemModel 是购物车行的数据库模型。
// (session_id, product_id) 唯一：同一会话同一商品只有一行，加购时合并数量。
type CartItemModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	SessionID   string          `gorm:"size:64;uniqueIndex:uk_session_product;index"`
	ProductID   int64           `gorm:"uniqueIndex:uk_session_product"`
	ProductName string          `gorm:"size:255"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)"`
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

func toDomain(m *CartItemModel) *domain.CartItem {
	return &domain.CartItem{
		ID:          m.ID,
		SessionID:   m.SessionID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Price:       m.Price,
		Quantity:    m.Quantity,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromDomain(item *domain.CartItem) *CartItemModel {
	return &CartItemModel{
		ID:          item.ID,
		SessionID:   item.SessionID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Price:       item.Price,
		Quantity:    item.Quantity,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
