// internal/service/coupon/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"bazaar/internal/service/coupon/domain"
)

// GormCouponRepository 是 CouponRepository 的 GORM 实现。
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository 创建一个新的 GORM 仓储实例。
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByCode 按优惠码查找。码在写入时已统一为大写，
// 调用方传入 NormalizeCode 之后的形态即可实现大小写不敏感匹配。
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var model CouponModel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, pkgerrors.Wrap(err, "find coupon by code")
	}
	return toDomain(&model), nil
}

func (r *GormCouponRepository) FindByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	var model CouponModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, pkgerrors.Wrap(err, "find coupon by id")
	}
	return toDomain(&model), nil
}

func (r *GormCouponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	var models []*CouponModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&models).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list coupons")
	}
	coupons := make([]*domain.Coupon, len(models))
	for i, m := range models {
		coupons[i] = toDomain(m)
	}
	return coupons, nil
}

func (r *GormCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	model := fromDomain(coupon)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateCode
		}
		return pkgerrors.Wrap(err, "create coupon")
	}
	// 回填数据库生成的字段
	coupon.ID = model.ID
	coupon.CreatedAt = model.CreatedAt
	coupon.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormCouponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	model := fromDomain(coupon)
	// Save 全量更新，用量计数以当前实体为准（该接口不用于并发累加）
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return pkgerrors.Wrap(err, "update coupon")
	}
	return nil
}

func (r *GormCouponRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&CouponModel{}, id)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "delete coupon")
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

// IncrementUsage 用数据库表达式原子累加用量，避免读-改-写丢失更新。
func (r *GormCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&CouponModel{}).
		Where("code = ?", code).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "increment coupon usage")
	}
	if result.RowsAffected == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}
