// internal/service/order/domain/errors.go
package domain

import "errors"

var (
	// ErrOrderNotFound 表示订单不存在。
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder 表示订单没有任何商品行。
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrMissingCustomerInfo 表示客户必填信息缺失。
	ErrMissingCustomerInfo = errors.New("customer name, email and shipping address are required")
	// ErrInvalidStatus 表示未知的订单状态。
	ErrInvalidStatus = errors.New("unknown order status")
	// ErrInvalidTransition 表示不允许的状态迁移。
	ErrInvalidTransition = errors.New("illegal order status transition")
)
