// internal/service/order/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/order/domain"
)

// OrderService 定义了订单服务提供的所有业务用例。
type OrderService struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	tracer    trace.Tracer
}

// NewOrderService 创建一个新的订单服务实例。
func NewOrderService(repo domain.OrderRepository, publisher domain.EventPublisher, tracer trace.Tracer) *OrderService {
	return &OrderService{repo: repo, publisher: publisher, tracer: tracer}
}

// CreateOrder 创建一个新订单。
// 金额一律由服务端根据行快照重算，不信任请求里的合计；
// 订单落库成功后发布 OrderPlaced 事件，事件发布失败不回滚订单。
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.CreateOrder")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", req.SessionID))

	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerEmail) == "" ||
		strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, domain.ErrMissingCustomerInfo
	}
	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		if it.Quantity < 1 {
			return nil, domain.ErrEmptyOrder
		}
		items[i] = domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		}
	}

	now := time.Now()
	order := &domain.Order{
		OrderNumber:     domain.NewOrderNumber(now, now.UnixNano()),
		SessionID:       req.SessionID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		ShippingAddress: strings.TrimSpace(req.ShippingAddress),
		Items:           items,
		CouponCode:      req.CouponCode,
		DiscountAmount:  req.DiscountAmount,
		Status:          domain.StatusPending,
	}
	order.ComputeTotals()

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order persistence failed")
		return nil, err
	}

	event := &domain.OrderPlacedEvent{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		SessionID:     order.SessionID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		CouponCode:    order.CouponCode,
		CreatedAt:     order.CreatedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		// 订单已经成功，事件丢失只影响下游通知
		logger.Ctx(ctx).Error().Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to publish order placed event")
		span.RecordError(err)
	}

	logger.Ctx(ctx).Info().
		Str("order_number", order.OrderNumber).
		Str("total", order.TotalAmount.String()).
		Msg("order created")
	return order, nil
}

// GetOrder 按 ID 返回一个订单。
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.GetOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id))
	return s.repo.FindByID(ctx, id)
}

// ListOrders 返回全部订单（后台管理）。
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.ListOrders")
	defer span.End()
	return s.repo.List(ctx)
}

// UpdateStatus 按状态机约束迁移订单状态。
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, req *UpdateStatusRequest) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id), attribute.String("order.status", req.Status))

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Transition(domain.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, order.Status); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().
		Int64("order_id", id).
		Str("status", string(order.Status)).
		Msg("order status updated")
	return order, nil
}

// DeleteOrder 删除一个订单（后台管理）。
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "order.DeleteOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", id))
	return s.repo.Delete(ctx, id)
}
