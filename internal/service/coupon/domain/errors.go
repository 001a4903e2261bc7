// internal/service/coupon/domain/errors.go
package domain

import "errors"

var (
	// ErrCouponNotFound 表示按码或 ID 找不到对应的券。
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrDuplicateCode 表示创建时优惠码已被占用。
	ErrDuplicateCode = errors.New("coupon code already exists")
)
