// internal/service/coupon/application/dto.go
package application

import (
	"time"

	"github.com/shopspring/decimal"

	"bazaar/internal/service/coupon/domain"
)

// ValidateCouponRequest 是校验接口的请求体。
type ValidateCouponRequest struct {
	Code        string          `json:"code"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

// IncrementUsageRequest 是用量累加接口的请求体。
type IncrementUsageRequest struct {
	Code string `json:"code"`
}

// CouponValidationResult 是校验接口的响应体。
type CouponValidationResult struct {
	IsValid        bool            `json:"isValid"`
	Message        string          `json:"message"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Coupon         *CouponDTO      `json:"coupon,omitempty"`
}

// CouponDTO 是优惠券的对外表示。
type CouponDTO struct {
	ID                    int64               `json:"id"`
	Code                  string              `json:"code"`
	Description           string              `json:"description"`
	DiscountType          domain.DiscountType `json:"discountType"`
	DiscountValue         decimal.Decimal     `json:"discountValue"`
	MinimumOrderAmount    *decimal.Decimal    `json:"minimumOrderAmount,omitempty"`
	MaximumDiscountAmount *decimal.Decimal    `json:"maximumDiscountAmount,omitempty"`
	ExpirationDate        *time.Time          `json:"expirationDate,omitempty"`
	MaxUsageCount         *int                `json:"maxUsageCount,omitempty"`
	UsageCount            int                 `json:"usageCount"`
	IsActive              bool                `json:"isActive"`
	RuleDefinition        string              `json:"ruleDefinition,omitempty"`
	CreatedAt             time.Time           `json:"createdAt"`
}

// CreateCouponRequest 是后台创建优惠券的请求体。
type CreateCouponRequest struct {
	Code                  string              `json:"code"`
	Description           string              `json:"description"`
	DiscountType          domain.DiscountType `json:"discountType"`
	DiscountValue         decimal.Decimal     `json:"discountValue"`
	MinimumOrderAmount    *decimal.Decimal    `json:"minimumOrderAmount,omitempty"`
	MaximumDiscountAmount *decimal.Decimal    `json:"maximumDiscountAmount,omitempty"`
	ExpirationDate        *time.Time          `json:"expirationDate,omitempty"`
	MaxUsageCount         *int                `json:"maxUsageCount,omitempty"`
	RuleDefinition        string              `json:"ruleDefinition,omitempty"`
}

// UpdateCouponRequest 是后台更新优惠券的请求体。
// 与创建相比多了启停开关；用量计数不允许通过该接口修改。
type UpdateCouponRequest struct {
	Description           string              `json:"description"`
	DiscountType          domain.DiscountType `json:"discountType"`
	DiscountValue         decimal.Decimal     `json:"discountValue"`
	MinimumOrderAmount    *decimal.Decimal    `json:"minimumOrderAmount,omitempty"`
	MaximumDiscountAmount *decimal.Decimal    `json:"maximumDiscountAmount,omitempty"`
	ExpirationDate        *time.Time          `json:"expirationDate,omitempty"`
	MaxUsageCount         *int                `json:"maxUsageCount,omitempty"`
	RuleDefinition        string              `json:"ruleDefinition,omitempty"`
	IsActive              bool                `json:"isActive"`
}

// ToDTO 把领域实体转换为对外表示。
func ToDTO(c *domain.Coupon) *CouponDTO {
	if c == nil {
		return nil
	}
	dto := &CouponDTO{
		ID:             c.ID,
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue,
		ExpirationDate: c.ExpirationDate,
		MaxUsageCount:  c.MaxUsageCount,
		UsageCount:     c.UsageCount,
		IsActive:       c.IsActive,
		RuleDefinition: c.RuleDefinition,
		CreatedAt:      c.CreatedAt,
	}
	if c.MinimumOrderAmount.Valid {
		v := c.MinimumOrderAmount.Decimal
		dto.MinimumOrderAmount = &v
	}
	if c.MaximumDiscountAmount.Valid {
		v := c.MaximumDiscountAmount.Decimal
		dto.MaximumDiscountAmount = &v
	}
	return dto
}
