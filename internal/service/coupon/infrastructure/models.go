// internal/service/coupon/infrastructure/models.go
package infrastructure

import (
	"time"

	"github.com/shopspring/decimal"

	"bazaar/internal/service/coupon/domain"
)

// CouponModel 是 Coupon 领域对象在数据库中的表示。
type CouponModel struct {
	ID                    int64               `gorm:"primaryKey;autoIncrement"`
	Code                  string              `gorm:"uniqueIndex;size:64;not null"`
	Description           string              `gorm:"size:255"`
	DiscountType          string              `gorm:"size:16;not null"`
	DiscountValue         decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	MinimumOrderAmount    decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	MaximumDiscountAmount decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	ExpirationDate        *time.Time
	MaxUsageCount         *int
	UsageCount            int    `gorm:"not null;default:0"`
	IsActive              bool   `gorm:"not null;default:true"`
	RuleDefinition        string `gorm:"type:text"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName 指定 GORM 应该使用的表名。
func (CouponModel) TableName() string {
	return "coupons"
}

// toDomain 将数据库模型转换为领域模型。
func toDomain(m *CouponModel) *domain.Coupon {
	if m == nil {
		return nil
	}
	return &domain.Coupon{
		ID:                    m.ID,
		Code:                  m.Code,
		Description:           m.Description,
		DiscountType:          domain.DiscountType(m.DiscountType),
		DiscountValue:         m.DiscountValue,
		MinimumOrderAmount:    m.MinimumOrderAmount,
		MaximumDiscountAmount: m.MaximumDiscountAmount,
		ExpirationDate:        m.ExpirationDate,
		MaxUsageCount:         m.MaxUsageCount,
		UsageCount:            m.UsageCount,
		IsActive:              m.IsActive,
		RuleDefinition:        m.RuleDefinition,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// fromDomain 将领域模型转换为数据库模型。
func fromDomain(c *domain.Coupon) *CouponModel {
	if c == nil {
		return nil
	}
	return &CouponModel{
		ID:                    c.ID,
		Code:                  c.Code,
		Description:           c.Description,
		DiscountType:          string(c.DiscountType),
		DiscountValue:         c.DiscountValue,
		MinimumOrderAmount:    c.MinimumOrderAmount,
		MaximumDiscountAmount: c.MaximumDiscountAmount,
		ExpirationDate:        c.ExpirationDate,
		MaxUsageCount:         c.MaxUsageCount,
		UsageCount:            c.UsageCount,
		IsActive:              c.IsActive,
		RuleDefinition:        c.RuleDefinition,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}
