// internal/service/order/infrastructure/models.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"bazaar/internal/service/order/domain"
)

// OrderModel 是订单的数据库模型，行以外键关联。
type OrderModel struct {
	ID              int64            `gorm:"primaryKey;autoIncrement"`
	OrderNumber     string           `gorm:"size:64;uniqueIndex"`
	SessionID       string           `gorm:"size:64;index"`
	CustomerName    string           `gorm:"size:255"`
	CustomerEmail   string           `gorm:"size:255"`
	ShippingAddress string           `gorm:"type:text"`
	Subtotal        decimal.Decimal  `gorm:"type:decimal(10,2)"`
	CouponCode      string           `gorm:"size:64"`
	DiscountAmount  decimal.Decimal  `gorm:"type:decimal(10,2)"`
	TotalAmount     decimal.Decimal  `gorm:"type:decimal(10,2)"`
	Status          string           `gorm:"size:32;index"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel 是订单行的数据库模型。
type OrderItemModel struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	OrderID     int64 `gorm:"index"`
	ProductID   int64
	ProductName string          `gorm:"size:255"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)"`
	Quantity    int
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

func toDomain(m *OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = domain.OrderItem{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		}
	}
	return &domain.Order{
		ID:              m.ID,
		OrderNumber:     m.OrderNumber,
		SessionID:       m.SessionID,
		CustomerName:    m.CustomerName,
		CustomerEmail:   m.CustomerEmail,
		ShippingAddress: m.ShippingAddress,
		Items:           items,
		Subtotal:        m.Subtotal,
		CouponCode:      m.CouponCode,
		DiscountAmount:  m.DiscountAmount,
		TotalAmount:     m.TotalAmount,
		Status:          domain.OrderStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromDomain(o *domain.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemModel{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		}
	}
	return &OrderModel{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		SessionID:       o.SessionID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: o.ShippingAddress,
		Subtotal:        o.Subtotal,
		CouponCode:      o.CouponCode,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		Items:           items,
	}
}
