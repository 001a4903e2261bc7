// internal/service/storefront/domain/errors.go
package domain

import "errors"

var (
	// ErrLineNotFound 表示购物车行已不存在。
	// 重复删除与删除从未存在过的行得到同一个结论。
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity 表示数量必须 >= 1，在发起任何网络调用之前被拒。
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)
