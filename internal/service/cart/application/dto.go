// internal/service/cart/application/dto.go
package application

import (
	"github.com/shopspring/decimal"
)

// AddItemRequest 是加购接口的请求体。
// ProductName 和 Price 是调用方在加购时刻提供的商品快照。
type AddItemRequest struct {
	SessionID   string          `json:"sessionId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// UpdateQuantityRequest 是修改数量接口的请求体。
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
