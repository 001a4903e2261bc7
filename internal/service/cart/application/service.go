// internal/service/cart/application/service.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/cart/domain"
)

// CartService 定义了购物车服务提供的所有业务用例。
type CartService struct {
	repo   domain.CartRepository
	tracer trace.Tracer
}

// NewCartService 创建一个新的购物车服务实例。
func NewCartService(repo domain.CartRepository, tracer trace.Tracer) *CartService {
	return &CartService{repo: repo, tracer: tracer}
}

// GetCart 返回会话的全部购物车行。不存在的会话得到空列表，不是错误。
func (s *CartService) GetCart(ctx context.Context, sessionID string) ([]*domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "cart.GetCart")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	items, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cart lookup failed")
		return nil, err
	}
	if items == nil {
		items = []*domain.CartItem{}
	}
	return items, nil
}

// AddItem 把一件商品加入购物车。
// 同一会话同一商品只保留一行：重复加购合并数量，价格快照保持首次加购时的值。
func (s *CartService) AddItem(ctx context.Context, req *AddItemRequest) (*domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "cart.AddItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", req.SessionID),
		attribute.Int64("product.id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	existing, err := s.repo.FindBySessionAndProduct(ctx, req.SessionID, req.ProductID)
	if err == nil {
		existing.Quantity += req.Quantity
		if err := s.repo.Update(ctx, existing); err != nil {
			span.RecordError(err)
			return nil, err
		}
		return existing, nil
	}
	if err != domain.ErrItemNotFound {
		span.RecordError(err)
		return nil, err
	}

	item := &domain.CartItem{
		SessionID:   req.SessionID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "add cart item failed")
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("session_id", req.SessionID).
		Int64("product_id", req.ProductID).
		Msg("cart item added")
	return item, nil
}

// UpdateQuantity 把一行的数量改为给定值。数量必须 >= 1，
// 减到零等价于删除，应当走删除接口。
func (s *CartService) UpdateQuantity(ctx context.Context, id int64, req *UpdateQuantityRequest) (*domain.CartItem, error) {
	ctx, span := s.tracer.Start(ctx, "cart.UpdateQuantity")
	defer span.End()
	span.SetAttributes(attribute.Int64("item.id", id), attribute.Int("quantity", req.Quantity))

	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Quantity = req.Quantity
	if err := s.repo.Update(ctx, item); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return item, nil
}

// RemoveItem 删除一行。行不存在返回 ErrItemNotFound。
func (s *CartService) RemoveItem(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "cart.RemoveItem")
	defer span.End()
	span.SetAttributes(attribute.Int64("item.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		if err != domain.ErrItemNotFound {
			span.RecordError(err)
			span.SetStatus(codes.Error, "remove cart item failed")
		}
		return err
	}
	return nil
}

// ClearCart 清空会话的全部购物车行。
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "cart.ClearCart")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", sessionID))

	if err := s.repo.DeleteBySession(ctx, sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clear cart failed")
		return err
	}
	logger.Ctx(ctx).Info().Str("session_id", sessionID).Msg("cart cleared")
	return nil
}
