// internal/service/cart/domain/errors.go
package domain

import "errors"

var (
	// ErrItemNotFound 表示购物车行不存在（或已被删除）。
	ErrItemNotFound = errors.New("cart item not found")
	// ErrInvalidQuantity 表示数量不在合法范围内（必须 >= 1）。
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)
