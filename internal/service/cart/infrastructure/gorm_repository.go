// internal/service/cart/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"bazaar/internal/service/cart/domain"
)

// GormCartRepository 是 CartRepository 的 GORM 实现。
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository 创建一个新的 GORM 仓储实例。
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) FindBySession(ctx context.Context, sessionID string) ([]*domain.CartItem, error) {
	var models []*CartItemModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&models).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find cart items by session")
	}
	items := make([]*domain.CartItem, len(models))
	for i, m := range models {
		items[i] = toDomain(m)
	}
	return items, nil
}

func (r *GormCartRepository) FindByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	var model CartItemModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, pkgerrors.Wrap(err, "find cart item by id")
	}
	return toDomain(&model), nil
}

func (r *GormCartRepository) FindBySessionAndProduct(ctx context.Context, sessionID string, productID int64) (*domain.CartItem, error) {
	var model CartItemModel
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, pkgerrors.Wrap(err, "find cart item by session and product")
	}
	return toDomain(&model), nil
}

func (r *GormCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	model := fromDomain(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return pkgerrors.Wrap(err, "create cart item")
	}
	item.ID = model.ID
	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormCartRepository) Update(ctx context.Context, item *domain.CartItem) error {
	result := r.db.WithContext(ctx).
		Model(&CartItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{"quantity": item.Quantity})
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "update cart item")
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *GormCartRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&CartItemModel{}, id)
	if result.Error != nil {
		return pkgerrors.Wrap(result.Error, "delete cart item")
	}
	if result.RowsAffected == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// DeleteBySession 清空整个会话的购物车。空车清空不是错误。
func (r *GormCartRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return pkgerrors.Wrap(err, "clear cart")
	}
	return nil
}
