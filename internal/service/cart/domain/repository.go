// internal/service/cart/domain/repository.go
package domain

import "context"

// CartRepository 定义了购物车行的持久化端口。
type CartRepository interface {
	FindBySession(ctx context.Context, sessionID string) ([]*CartItem, error)
	FindByID(ctx context.Context, id int64) (*CartItem, error)
	// FindBySessionAndProduct 用于加购时合并同商品的行；不存在时返回 ErrItemNotFound。
	FindBySessionAndProduct(ctx context.Context, sessionID string, productID int64) (*CartItem, error)
	Create(ctx context.Context, item *CartItem) error
	Update(ctx context.Context, item *CartItem) error
	Delete(ctx context.Context, id int64) error
	DeleteBySession(ctx context.Context, sessionID string) error
}
